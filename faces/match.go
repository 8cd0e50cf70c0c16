package faces

import "math"

// DefaultTolerance is the maximum distance between two encodings
// that is still considered the same person
const DefaultTolerance = 0.6

// FaceDistance calculates the Euclidean distance between two face encodings.
// Lower distance means more similar faces.
func FaceDistance(a, b FaceEncoding) float64 {
	var sum float64
	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// CompareFaces compares a known encoding against a candidate encoding.
// Confidence is derived from the distance and clamped to [0, 1].
func CompareFaces(known, candidate FaceEncoding, tolerance float64) MatchResult {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	distance := FaceDistance(known, candidate)
	confidence := 1 - distance
	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}
	return MatchResult{
		Match:      distance <= tolerance,
		Distance:   distance,
		Confidence: confidence,
	}
}

// FindBestMatch compares the candidate against all known encodings and
// returns the index of the best match and its result. The best match is
// the one with the highest confidence. On equal confidence the earlier
// index wins, so results are deterministic for a fixed ordering.
// Returns -1 if no encoding matches within the tolerance.
func FindBestMatch(known FaceEncodingList, candidate FaceEncoding, tolerance float64) (int, MatchResult) {
	bestIndex := -1
	var best MatchResult
	for i, encoding := range known {
		result := CompareFaces(encoding, candidate, tolerance)
		if !result.Match {
			continue
		}
		if bestIndex == -1 || result.Confidence > best.Confidence {
			bestIndex = i
			best = result
		}
	}
	return bestIndex, best
}
