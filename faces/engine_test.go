package faces

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// The engine tests need the dlib model files, which are too big to keep
// in the repository. Point FACE_MODELS_DIR at a directory containing
// them to run these.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	modelsDir := os.Getenv("FACE_MODELS_DIR")
	if modelsDir == "" {
		modelsDir = filepath.Join("testdata", "models")
	}
	if _, err := os.Stat(filepath.Join(modelsDir, "shape_predictor_5_face_landmarks.dat")); err != nil {
		t.Skip("dlib model files not available")
	}
	engine, err := NewEngine(EngineConfig{
		ModelsDir:   modelsDir,
		MinFaceSize: 80,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func TestValidateQualityNoFace(t *testing.T) {
	engine := newTestEngine(t)
	img, err := Preprocess(makeTestJPEG(t, 320, 240), testMaxBytes, testMaxDimension)
	if err != nil {
		t.Fatal(err)
	}
	_, err = engine.ValidateQuality(img)
	if !errors.Is(err, ErrNoFaceDetected) {
		t.Errorf("expected ErrNoFaceDetected for a faceless image, got %v", err)
	}
}

func TestEncodeNoFace(t *testing.T) {
	engine := newTestEngine(t)
	img, err := Preprocess(makeTestJPEG(t, 320, 240), testMaxBytes, testMaxDimension)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = engine.Encode(img, nil); !errors.Is(err, ErrNoFaceDetected) {
		t.Errorf("expected ErrNoFaceDetected, got %v", err)
	}
	location := FaceBoundaries{10, 200, 200, 10}
	if _, err = engine.Encode(img, &location); !errors.Is(err, ErrEncodingFailed) {
		t.Errorf("expected ErrEncodingFailed for a located encode, got %v", err)
	}
}
