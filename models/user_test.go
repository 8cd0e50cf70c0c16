package models

import (
	"testing"

	"faceattend/faces"
)

func TestUserSetPassword(t *testing.T) {
	u := User{}
	u.SetPassword("correct horse battery staple")
	if u.PassSalt == "" {
		t.Error("expected a salt to be generated")
	}
	if u.Password == "correct horse battery staple" {
		t.Error("expected the password to be hashed")
	}
	if !u.CheckPassword("correct horse battery staple") {
		t.Error("expected the correct password to verify")
	}
	if u.CheckPassword("wrong password") {
		t.Error("expected a wrong password to fail")
	}
}

func TestUserFaceEncodingRoundTrip(t *testing.T) {
	u := User{}
	if u.GetFaceEncoding() != nil {
		t.Error("expected no encoding on a fresh user")
	}
	if u.HasFaceEnrolled() {
		t.Error("expected no enrollment on a fresh user")
	}

	var encoding faces.FaceEncoding
	for i := range encoding {
		encoding[i] = float64(i) / 128
	}
	u.SetFaceEncoding(&encoding)

	if !u.HasFaceEnrolled() {
		t.Error("expected the user to count as enrolled")
	}
	if u.FaceEnrolledAt == 0 {
		t.Error("expected the enrollment time to be set")
	}
	stored := u.GetFaceEncoding()
	if stored == nil {
		t.Fatal("expected the stored encoding to decode")
	}
	if *stored != encoding {
		t.Error("expected the stored encoding to round-trip unchanged")
	}
}

func TestUserGetFaceEncodingTruncated(t *testing.T) {
	u := User{FaceEncoding: []byte{1, 2, 3}}
	if u.GetFaceEncoding() != nil {
		t.Error("expected a truncated blob to decode to nil")
	}
}

func TestUserWithdrawConsent(t *testing.T) {
	u := User{}
	u.GiveConsent("10.0.0.5", "1.0")
	if !u.ConsentGiven || u.ConsentTimestamp == 0 || u.ConsentIP != "10.0.0.5" {
		t.Errorf("unexpected consent state: %+v", u)
	}

	var encoding faces.FaceEncoding
	u.SetFaceEncoding(&encoding)
	u.WithdrawConsent()

	if u.ConsentGiven {
		t.Error("expected consent to be withdrawn")
	}
	if u.FaceEncoding != nil || u.FaceEnrolledAt != 0 {
		t.Error("expected the face encoding to be erased on withdrawal")
	}
}

func TestUserHasRole(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		allowed  bool
	}{
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleInstructor, false},
		{RoleStudent, RoleAdmin, false},
		{RoleInstructor, RoleInstructor, true},
		{RoleInstructor, RoleAdmin, false},
		{RoleAdmin, RoleInstructor, true},
		{RoleAdmin, RoleAdmin, true},
	}
	for _, tt := range tests {
		u := User{Role: tt.role}
		if got := u.HasRole(tt.required); got != tt.allowed {
			t.Errorf("role %s requiring %s: expected %v, got %v", tt.role, tt.required, tt.allowed, got)
		}
	}
}

func TestRoleFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"student", RoleStudent},
		{"instructor", RoleInstructor},
		{"lecturer", RoleInstructor},
		{"admin", RoleAdmin},
		{"", RoleStudent},
		{"something else", RoleStudent},
	}
	for _, tt := range tests {
		if got := RoleFromString(tt.in); got != tt.want {
			t.Errorf("RoleFromString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
