package faces

import (
	"image"
	"sync"

	"github.com/Kagami/go-face"
)

// EngineConfig holds the recognizer settings. All values are explicit
// so tests and callers never depend on process-wide state.
type EngineConfig struct {
	ModelsDir   string // directory with the dlib model files
	UseCNN      bool   // CNN detector instead of HOG, slower but handles angles better
	MinFaceSize int    // minimum face box width/height in pixels
}

// Engine wraps the dlib-based recognizer. The recognizer is not safe
// for concurrent use, so all calls are serialized.
type Engine struct {
	config     EngineConfig
	recognizer *face.Recognizer
	lock       sync.Mutex
}

func NewEngine(config EngineConfig) (*Engine, error) {
	recognizer, err := face.NewRecognizer(config.ModelsDir)
	if err != nil {
		return nil, err
	}
	return &Engine{
		config:     config,
		recognizer: recognizer,
	}, nil
}

func (e *Engine) Close() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.recognizer.Close()
}

func (e *Engine) recognize(jpegData []byte) ([]face.Face, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.config.UseCNN {
		return e.recognizer.RecognizeCNN(jpegData)
	}
	return e.recognizer.Recognize(jpegData)
}

// Detect returns the boundaries of all faces found in the image
func (e *Engine) Detect(img *NormalizedImage) (FaceBoundariesList, error) {
	found, err := e.recognize(img.JPEG)
	if err != nil {
		return nil, err
	}
	locations := make(FaceBoundariesList, 0, len(found))
	for _, f := range found {
		locations = append(locations, BoundariesFromRect(f.Rectangle))
	}
	return locations, nil
}

// ValidateQuality checks that the image contains exactly one face large
// enough to produce a reliable encoding, and returns its boundaries
func (e *Engine) ValidateQuality(img *NormalizedImage) (FaceBoundaries, error) {
	locations, err := e.Detect(img)
	if err != nil {
		return FaceBoundaries{}, err
	}
	if len(locations) == 0 {
		return FaceBoundaries{}, ErrNoFaceDetected
	}
	if len(locations) > 1 {
		return FaceBoundaries{}, ErrMultipleFaces
	}
	location := locations[0]
	if location.Width() < e.config.MinFaceSize || location.Height() < e.config.MinFaceSize {
		return FaceBoundaries{}, ErrFaceTooSmall
	}
	return location, nil
}

// Encode computes the 128-dimensional encoding of a face. With a nil
// location the first detected face is used. With a location the face
// overlapping it most is used, so the encoding corresponds to the box
// that passed quality validation.
func (e *Engine) Encode(img *NormalizedImage, location *FaceBoundaries) (*FaceEncoding, error) {
	found, err := e.recognize(img.JPEG)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		if location != nil {
			return nil, ErrEncodingFailed
		}
		return nil, ErrNoFaceDetected
	}
	best := found[0]
	if location != nil {
		want := location.Rect()
		bestArea := 0
		for _, f := range found {
			if area := overlapArea(want, f.Rectangle); area > bestArea {
				best = f
				bestArea = area
			}
		}
		if bestArea == 0 {
			return nil, ErrEncodingFailed
		}
	}
	return encodingFromDescriptor(best.Descriptor), nil
}

func encodingFromDescriptor(d face.Descriptor) *FaceEncoding {
	var encoding FaceEncoding
	for i, v := range d {
		encoding[i] = float64(v)
	}
	return &encoding
}

func overlapArea(a, b image.Rectangle) int {
	overlap := a.Intersect(b)
	return overlap.Dx() * overlap.Dy()
}
