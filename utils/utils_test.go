package utils

import (
	"testing"
)

func TestFloat64ArrayRoundTrip(t *testing.T) {
	fa := []float64{0.1, -0.2, 0.3, 0, 1}
	result := ByteArrayToFloat64Array(Float64ArrayToByteArray(fa))
	if len(result) != len(fa) {
		t.Fatalf("expected %d values, got %d", len(fa), len(result))
	}
	for i := range fa {
		if result[i] != fa[i] {
			t.Errorf("value %d: expected %v, got %v", i, fa[i], result[i])
		}
	}
}

func TestByteArrayToFloat64ArrayTruncated(t *testing.T) {
	b := Float64ArrayToByteArray([]float64{0.5, 0.25})
	result := ByteArrayToFloat64Array(b[:len(b)-3])
	if len(result) != 1 {
		t.Errorf("expected trailing partial value to be dropped, got %d values", len(result))
	}
	if result[0] != 0.5 {
		t.Errorf("expected 0.5, got %v", result[0])
	}
}

func TestSha512String(t *testing.T) {
	result := Sha512String("CS101")
	expected := "e635577639f3312503ac18c678872c7977ae8f1221434030726f9a723c52087b274b4c0649caed3c01272f6b2c221e352e246e329765d10cf252327bd62c5a7d"
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}

func TestRandSalt(t *testing.T) {
	s1 := RandSalt(50)
	s2 := RandSalt(50)
	if s1 == s2 {
		t.Error("expected two different salts")
	}
	if len(s1) == 0 {
		t.Error("expected a non-empty salt")
	}
}
