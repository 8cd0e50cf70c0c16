package models

import (
	"reflect"
	"testing"
	"time"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func TestAttendance_GetTimeInLocation(t *testing.T) {
	CST, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Skip("timezone database not available")
	}
	EAT, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Skip("timezone database not available")
	}
	tests := []struct {
		name   string
		record Attendance
		want   time.Time
	}{
		{
			name: "GPS fix overrides the campus timezone",
			record: Attendance{
				Timestamp: 1696258800,
				GpsLat:    float64Ptr(39.9254474),
				GpsLong:   float64Ptr(116.3870752),
			},
			want: time.Unix(1696258800, 0).In(CST),
		},
		{
			name: "campus timezone when no GPS coords",
			record: Attendance{
				Timestamp: 1696258800,
			},
			want: time.Unix(1696258800, 0).In(EAT),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.GetTimeInLocation(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Attendance.GetTimeInLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayWindow(t *testing.T) {
	EAT, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		t.Skip("timezone database not available")
	}
	// 22:30 UTC is already the next day in Nairobi (UTC+3)
	at := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	from, to := dayWindow(at, EAT)

	wantFrom := time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC).Unix()
	if from != wantFrom {
		t.Errorf("expected day start %d, got %d", wantFrom, from)
	}
	if to != wantFrom+86400 {
		t.Errorf("expected a 24h window, got %d", to-from)
	}

	// the same instant belongs to the previous day in UTC
	utcFrom, _ := dayWindow(at, time.UTC)
	if utcFrom != time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).Unix() {
		t.Errorf("unexpected UTC day start %d", utcFrom)
	}
}
