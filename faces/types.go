package faces

import "image"

// Boundaries follow the top/right/bottom/left order
const (
	IndexTop    = 0
	IndexRight  = 1
	IndexBottom = 2
	IndexLeft   = 3
)

type (
	FaceBoundaries     [4]int
	FaceBoundariesList []FaceBoundaries
	FaceEncoding       [128]float64
	FaceEncodingList   []FaceEncoding
)

// MatchResult is the outcome of comparing two face encodings
type MatchResult struct {
	Match      bool    `json:"match"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
}

// NormalizedImage is a decoded upload, oriented upright, capped in size
// and re-encoded as JPEG for the recognizer
type NormalizedImage struct {
	Image  image.Image
	JPEG   []byte
	Width  int
	Height int
}

func (b FaceBoundaries) Width() int {
	return b[IndexRight] - b[IndexLeft]
}

func (b FaceBoundaries) Height() int {
	return b[IndexBottom] - b[IndexTop]
}

func (b FaceBoundaries) Rect() image.Rectangle {
	return image.Rect(b[IndexLeft], b[IndexTop], b[IndexRight], b[IndexBottom])
}

func BoundariesFromRect(r image.Rectangle) FaceBoundaries {
	return FaceBoundaries{r.Min.Y, r.Max.X, r.Max.Y, r.Min.X}
}
