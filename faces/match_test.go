package faces

import (
	"math"
	"testing"
)

func encodingWithValues(values ...float64) FaceEncoding {
	var encoding FaceEncoding
	copy(encoding[:], values)
	return encoding
}

func TestCompareFacesIdentical(t *testing.T) {
	encoding := encodingWithValues(0.1, -0.2, 0.3)
	result := CompareFaces(encoding, encoding, 0.6)
	if !result.Match {
		t.Error("expected identical encodings to match")
	}
	if result.Distance != 0 {
		t.Errorf("expected distance 0, got %v", result.Distance)
	}
	if result.Confidence != 1 {
		t.Errorf("expected confidence 1, got %v", result.Confidence)
	}
}

func TestCompareFacesKnownDistance(t *testing.T) {
	a := FaceEncoding{}
	b := encodingWithValues(0.3)
	result := CompareFaces(a, b, 0.6)
	if math.Abs(result.Distance-0.3) > 1e-9 {
		t.Errorf("expected distance 0.3, got %v", result.Distance)
	}
	if math.Abs(result.Confidence-0.7) > 1e-9 {
		t.Errorf("expected confidence 0.7, got %v", result.Confidence)
	}
	if !result.Match {
		t.Error("expected a match within tolerance")
	}
}

func TestCompareFacesSymmetry(t *testing.T) {
	a := encodingWithValues(0.1, 0.5, -0.3)
	b := encodingWithValues(-0.2, 0.1, 0.4)
	if FaceDistance(a, b) != FaceDistance(b, a) {
		t.Error("expected distance to be symmetric")
	}
}

func TestCompareFacesConfidenceClamped(t *testing.T) {
	a := FaceEncoding{}
	var b FaceEncoding
	for i := range b {
		b[i] = 0.2
	}
	// distance is sqrt(128 * 0.04) which is well above 1
	result := CompareFaces(a, b, 0.6)
	if result.Confidence != 0 {
		t.Errorf("expected confidence clamped to 0, got %v", result.Confidence)
	}
	if result.Match {
		t.Error("expected no match at this distance")
	}
}

func TestCompareFacesDefaultTolerance(t *testing.T) {
	a := FaceEncoding{}
	b := encodingWithValues(0.5)
	result := CompareFaces(a, b, 0)
	if !result.Match {
		t.Error("expected distance 0.5 to match with the default tolerance")
	}
	b = encodingWithValues(0.7)
	result = CompareFaces(a, b, 0)
	if result.Match {
		t.Error("expected distance 0.7 to miss with the default tolerance")
	}
}

func TestFindBestMatch(t *testing.T) {
	known := FaceEncodingList{
		encodingWithValues(0.5),
		encodingWithValues(0.2),
		encodingWithValues(0.4),
	}
	index, result := FindBestMatch(known, FaceEncoding{}, 0.6)
	if index != 1 {
		t.Errorf("expected closest encoding at index 1, got %d", index)
	}
	if math.Abs(result.Confidence-0.8) > 1e-9 {
		t.Errorf("expected confidence 0.8, got %v", result.Confidence)
	}
}

func TestFindBestMatchTieKeepsFirst(t *testing.T) {
	known := FaceEncodingList{
		encodingWithValues(0.3),
		encodingWithValues(0.3),
	}
	index, _ := FindBestMatch(known, FaceEncoding{}, 0.6)
	if index != 0 {
		t.Errorf("expected the first of equal candidates, got index %d", index)
	}
}

func TestFindBestMatchNone(t *testing.T) {
	known := FaceEncodingList{
		encodingWithValues(0.9),
		encodingWithValues(1.5),
	}
	index, result := FindBestMatch(known, FaceEncoding{}, 0.6)
	if index != -1 {
		t.Errorf("expected no match, got index %d", index)
	}
	if result.Match {
		t.Error("expected an empty result for no match")
	}
}

func TestFindBestMatchEmptyList(t *testing.T) {
	index, _ := FindBestMatch(nil, encodingWithValues(0.1), 0.6)
	if index != -1 {
		t.Errorf("expected -1 for empty candidate list, got %d", index)
	}
}
