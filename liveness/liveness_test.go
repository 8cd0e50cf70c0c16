package liveness

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"faceattend/faces"
)

var (
	skinTone = color.RGBA{200, 120, 80, 255}
	blueTone = color.RGBA{50, 50, 200, 255}
	grayTone = color.RGBA{128, 128, 128, 255}
)

func testConfig() CheckerConfig {
	return CheckerConfig{
		Threshold:      0.7,
		BlurThreshold:  100,
		SkinRatioMin:   0.15,
		SkinRatioMax:   0.60,
		EyeCascadeFile: "testdata/missing-cascade",
	}
}

func makeImage(width, height int, pick func(x, y int) color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, pick(x, y))
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// two colors in 8x8 blocks, sharp and about half skin colored
func liveLookingImage() *image.RGBA {
	return makeImage(200, 200, func(x, y int) color.RGBA {
		if (x/8+y/8)%2 == 0 {
			return skinTone
		}
		return blueTone
	})
}

func TestCheckBlurFlatImage(t *testing.T) {
	img := makeImage(100, 100, func(x, y int) color.RGBA { return grayTone })
	passed, score := CheckBlur(img, 100)
	if passed {
		t.Error("expected a flat image to fail the blur check")
	}
	if score != 0 {
		t.Errorf("expected variance 0 for a flat image, got %v", score)
	}
}

func TestCheckBlurSharpImage(t *testing.T) {
	img := makeImage(100, 100, func(x, y int) color.RGBA {
		if (x+y)%2 == 0 {
			return color.RGBA{255, 255, 255, 255}
		}
		return color.RGBA{0, 0, 0, 255}
	})
	passed, score := CheckBlur(img, 100)
	if !passed {
		t.Errorf("expected a checkerboard to pass the blur check, variance %v", score)
	}
}

func TestCheckSkinRatio(t *testing.T) {
	tests := []struct {
		name   string
		pick   func(x, y int) color.RGBA
		passed bool
		ratio  float64
	}{
		{
			name:   "all skin exceeds upper bound",
			pick:   func(x, y int) color.RGBA { return skinTone },
			passed: false,
			ratio:  1.0,
		},
		{
			name: "natural portion of skin",
			pick: func(x, y int) color.RGBA {
				if x < 40 {
					return skinTone
				}
				return blueTone
			},
			passed: true,
			ratio:  0.4,
		},
		{
			name:   "no skin at all",
			pick:   func(x, y int) color.RGBA { return grayTone },
			passed: false,
			ratio:  0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			passed, ratio := CheckSkinRatio(makeImage(100, 100, test.pick), 0.15, 0.60)
			if passed != test.passed {
				t.Errorf("expected passed=%v, got %v (ratio %v)", test.passed, passed, ratio)
			}
			if ratio != test.ratio {
				t.Errorf("expected ratio %v, got %v", test.ratio, ratio)
			}
		})
	}
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		r, g, b float64
		h, s, v float64
	}{
		{255, 0, 0, 0, 255, 255},
		{0, 255, 0, 60, 255, 255},
		{0, 0, 255, 120, 255, 255},
		{255, 255, 255, 0, 0, 255},
		{0, 0, 0, 0, 0, 0},
	}
	for _, test := range tests {
		h, s, v := rgbToHSV(test.r, test.g, test.b)
		if h != test.h || s != test.s || v != test.v {
			t.Errorf("rgb(%v,%v,%v): expected hsv(%v,%v,%v), got (%v,%v,%v)",
				test.r, test.g, test.b, test.h, test.s, test.v, h, s, v)
		}
	}
}

func TestVerifyDecodeFailure(t *testing.T) {
	checker := NewChecker(testConfig())
	result := checker.Verify([]byte("not an image"), nil)
	if result.Verified {
		t.Error("expected undecodable input to deny liveness")
	}
	if result.Confidence != 0 {
		t.Errorf("expected confidence 0, got %v", result.Confidence)
	}
	if result.Error == "" {
		t.Error("expected an error message")
	}
}

func TestVerifyHalfOfChecksIsNotEnough(t *testing.T) {
	// left band skin colored, rest blue: passes the skin ratio check
	// but the image is too uniform to pass the blur check
	img := makeImage(200, 200, func(x, y int) color.RGBA {
		if x < 80 {
			return skinTone
		}
		return blueTone
	})
	checker := NewChecker(testConfig())
	result := checker.Verify(pngBytes(t, img), nil)
	if result.Confidence != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", result.Confidence)
	}
	if result.Verified {
		t.Error("expected 1 of 2 checks to be below the threshold")
	}
	if result.Details != "1/2 checks passed" {
		t.Errorf("unexpected details: %q", result.Details)
	}
}

func TestVerifyLiveLookingImage(t *testing.T) {
	checker := NewChecker(testConfig())
	result := checker.Verify(pngBytes(t, liveLookingImage()), nil)
	if !result.Verified {
		t.Errorf("expected a sharp image with natural skin ratio to verify: %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestVerifyEyeCheckAutoPassWithoutCascade(t *testing.T) {
	checker := NewChecker(testConfig())
	if checker.puploc != nil {
		t.Fatal("expected no cascade to be loaded")
	}
	location := faces.FaceBoundaries{20, 180, 180, 20}
	result := checker.Verify(pngBytes(t, liveLookingImage()), &location)
	eyes, ok := result.Checks["eyes_detected"]
	if !ok {
		t.Fatal("expected the eye check to run when a face location is known")
	}
	if !eyes.Passed || eyes.Score != 2 {
		t.Errorf("expected the eye check to auto-pass with 2 eyes, got %+v", eyes)
	}
	if !eyes.Skipped {
		t.Error("expected the auto-pass to be marked as skipped")
	}
	if !result.Verified || result.Confidence != 1.0 {
		t.Errorf("expected 3/3 checks to pass, got %+v", result)
	}
}
