package faces

import "errors"

var (
	ErrImageTooLarge  = errors.New("image too large")
	ErrInvalidImage   = errors.New("invalid image")
	ErrNoFaceDetected = errors.New("no face detected")
	ErrMultipleFaces  = errors.New("multiple faces detected")
	ErrFaceTooSmall   = errors.New("face too small")
	ErrEncodingFailed = errors.New("could not encode face")
	ErrNoMatch        = errors.New("no matching face found")
)
