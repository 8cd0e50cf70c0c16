package liveness

import "image"

// Skin tone range in HSV, using the usual 8-bit OpenCV units
// (hue 0..180, saturation and value 0..255)
const (
	skinHueMax        = 20.0
	skinSaturationMin = 20.0
	skinValueMin      = 70.0
)

// CheckSkinRatio measures the fraction of skin colored pixels.
// A live face fills a natural part of the frame, screens and prints
// tend to land outside the expected band on either side.
func CheckSkinRatio(img image.Image, minRatio, maxRatio float64) (bool, float64) {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return false, 0
	}

	skin := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			h, s, v := rgbToHSV(float64(r16>>8), float64(g16>>8), float64(b16>>8))
			if h <= skinHueMax && s >= skinSaturationMin && v >= skinValueMin {
				skin++
			}
		}
	}

	ratio := float64(skin) / float64(total)
	return ratio > minRatio && ratio < maxRatio, ratio
}

// rgbToHSV converts 8-bit RGB to HSV in OpenCV units: hue 0..180 with
// hue wrap, saturation and value 0..255
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	max, min := r, r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	delta := max - min
	if max > 0 {
		s = delta / max * 255
	}
	if delta == 0 {
		return 0, s, v
	}
	var degrees float64
	switch max {
	case r:
		degrees = 60 * (g - b) / delta
	case g:
		degrees = 120 + 60*(b-r)/delta
	default:
		degrees = 240 + 60*(r-g)/delta
	}
	if degrees < 0 {
		degrees += 360
	}
	return degrees / 2, s, v
}
