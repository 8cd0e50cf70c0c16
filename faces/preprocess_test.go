package faces

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

const (
	testMaxBytes     = 5 * 1024 * 1024
	testMaxDimension = 2048
)

func makeTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	return img
}

func makeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, makeTestImage(width, height), &jpeg.Options{Quality: 85}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPreprocessRejectsOversized(t *testing.T) {
	raw := make([]byte, testMaxBytes+1)
	_, err := Preprocess(raw, testMaxBytes, testMaxDimension)
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestPreprocessRejectsInvalid(t *testing.T) {
	_, err := Preprocess([]byte("definitely not an image"), testMaxBytes, testMaxDimension)
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestPreprocessKeepsSmallImage(t *testing.T) {
	img, err := Preprocess(makeTestJPEG(t, 640, 480), testMaxBytes, testMaxDimension)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 640 || img.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", img.Width, img.Height)
	}
	if len(img.JPEG) == 0 {
		t.Error("expected re-encoded JPEG data")
	}
}

func TestPreprocessDownscalesLargeImage(t *testing.T) {
	img, err := Preprocess(makeTestJPEG(t, 3000, 1500), testMaxBytes, testMaxDimension)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 2048 || img.Height != 1024 {
		t.Errorf("expected 2048x1024, got %dx%d", img.Width, img.Height)
	}
}

func TestPreprocessAcceptsPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, makeTestImage(320, 240)); err != nil {
		t.Fatal(err)
	}
	img, err := Preprocess(buf.Bytes(), testMaxBytes, testMaxDimension)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 320 || img.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", img.Width, img.Height)
	}
	// output is always JPEG regardless of the input format
	if _, err := jpeg.Decode(bytes.NewReader(img.JPEG)); err != nil {
		t.Errorf("expected valid JPEG output: %v", err)
	}
}
