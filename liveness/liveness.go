package liveness

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	pigo "github.com/esimov/pigo/core"

	"faceattend/faces"
)

// CheckerConfig holds the thresholds for the individual liveness checks
type CheckerConfig struct {
	Threshold      float64 // fraction of checks that must pass for the image to count as live
	BlurThreshold  float64 // minimum Laplacian variance
	SkinRatioMin   float64 // skin pixel ratio has to stay strictly between min and max
	SkinRatioMax   float64
	EyeCascadeFile string // pupil localization cascade, eye check passes automatically if missing
}

// CheckResult is the outcome of a single check. Score carries the
// measured value: Laplacian variance, skin ratio or detected eye count.
// Skipped marks the automatic pass of the eye check when no cascade is
// loaded, so a weakened check is visible in audit trails.
type CheckResult struct {
	Passed  bool    `json:"passed"`
	Score   float64 `json:"score"`
	Skipped bool    `json:"skipped,omitempty"`
}

// Result combines all liveness checks for one image
type Result struct {
	Verified   bool                   `json:"liveness_verified"`
	Confidence float64                `json:"confidence"`
	Checks     map[string]CheckResult `json:"checks,omitempty"`
	Details    string                 `json:"details,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// Checker runs basic anti-spoofing checks against printed photos
// and screen replays. These are heuristics, not a guarantee.
type Checker struct {
	config CheckerConfig
	puploc *pigo.PuplocCascade
}

func NewChecker(config CheckerConfig) *Checker {
	checker := &Checker{config: config}
	cascade, err := os.ReadFile(config.EyeCascadeFile)
	if err != nil {
		log.Printf("Pupil cascade not available, eye check will auto-pass: %v", err)
		return checker
	}
	checker.puploc, err = pigo.NewPuplocCascade().UnpackCascade(cascade)
	if err != nil {
		log.Printf("Cannot unpack pupil cascade, eye check will auto-pass: %v", err)
		checker.puploc = nil
	}
	return checker
}

// Verify runs all checks on the image and requires the configured
// fraction of them to pass. The eye check only runs when a face location
// is known. A failure to decode or a panic in any of the pixel loops
// denies liveness instead of failing the request.
func (c *Checker) Verify(imageData []byte, faceLocation *faces.FaceBoundaries) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Error: fmt.Sprintf("liveness check panic: %v", r)}
		}
	}()

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return Result{Error: err.Error()}
	}

	checks := map[string]CheckResult{}
	passed, total := 0, 0

	total++
	blurOK, blurScore := CheckBlur(img, c.config.BlurThreshold)
	checks["blur"] = CheckResult{Passed: blurOK, Score: blurScore}
	if blurOK {
		passed++
	}

	total++
	skinOK, skinRatio := CheckSkinRatio(img, c.config.SkinRatioMin, c.config.SkinRatioMax)
	checks["color_distribution"] = CheckResult{Passed: skinOK, Score: skinRatio}
	if skinOK {
		passed++
	}

	if faceLocation != nil {
		total++
		eyesOK, eyeCount := true, 2
		skipped := c.puploc == nil
		if !skipped {
			eyesOK, eyeCount = c.detectEyes(img, *faceLocation)
		}
		checks["eyes_detected"] = CheckResult{Passed: eyesOK, Score: float64(eyeCount), Skipped: skipped}
		if eyesOK {
			passed++
		}
	}

	confidence := float64(passed) / float64(total)
	return Result{
		Verified:   confidence >= c.config.Threshold,
		Confidence: confidence,
		Checks:     checks,
		Details:    fmt.Sprintf("%d/%d checks passed", passed, total),
	}
}
