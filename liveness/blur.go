package liveness

import "image"

// CheckBlur detects blurry images, a telltale of reprinted photos.
// The score is the variance of the Laplacian over the grayscale image,
// low variance means few sharp edges.
func CheckBlur(img image.Image, threshold float64) (bool, float64) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 2 || height < 2 {
		return false, 0
	}

	gray := make([]float64, width*height)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			gray[i] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 256.0
			i++
		}
	}

	variance := laplacianVariance(gray, width, height)
	return variance > threshold, variance
}

// laplacianVariance convolves with the 3x3 Laplacian kernel using
// reflected borders and returns the variance of the response
func laplacianVariance(gray []float64, width, height int) float64 {
	reflect := func(i, n int) int {
		if i < 0 {
			return -i
		}
		if i >= n {
			return 2*n - 2 - i
		}
		return i
	}

	var sum, sumSq float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			up := gray[reflect(y-1, height)*width+x]
			down := gray[reflect(y+1, height)*width+x]
			left := gray[y*width+reflect(x-1, width)]
			right := gray[y*width+reflect(x+1, width)]
			response := up + down + left + right - 4*gray[y*width+x]
			sum += response
			sumSq += response * response
		}
	}

	count := float64(width * height)
	mean := sum / count
	return sumSq/count - mean*mean
}
