package liveness

import (
	"image"

	pigo "github.com/esimov/pigo/core"

	"faceattend/faces"
)

const eyePerturbs = 63

// detectEyes localizes both pupils inside the face region. A printed
// photo held at an angle or a partly covered face rarely yields two
// stable pupil detections.
func (c *Checker) detectEyes(img image.Image, location faces.FaceBoundaries) (bool, int) {
	src := pigo.ImgToNRGBA(img)
	pixels := pigo.RgbToGrayscale(src)
	cols, rows := src.Bounds().Max.X, src.Bounds().Max.Y
	imgParams := pigo.ImageParams{
		Pixels: pixels,
		Rows:   rows,
		Cols:   cols,
		Dim:    cols,
	}

	rect := location.Rect()
	faceRow := rect.Min.Y + rect.Dy()/2
	faceCol := rect.Min.X + rect.Dx()/2
	faceScale := float32(rect.Dx())

	found := 0
	// left eye
	if c.locatePupil(imgParams, faceRow-int(0.075*faceScale), faceCol-int(0.175*faceScale), faceScale) {
		found++
	}
	// right eye
	if c.locatePupil(imgParams, faceRow-int(0.075*faceScale), faceCol+int(0.185*faceScale), faceScale) {
		found++
	}
	return found >= 2, found
}

func (c *Checker) locatePupil(imgParams pigo.ImageParams, row, col int, faceScale float32) bool {
	puploc := pigo.Puploc{
		Row:      row,
		Col:      col,
		Scale:    faceScale * 0.25,
		Perturbs: eyePerturbs,
	}
	result := c.puploc.RunDetector(puploc, imgParams, 0.0, false)
	return result.Row > 0 && result.Col > 0 && result.Scale > 0
}
