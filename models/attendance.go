package models

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/zsefvlol/timezonemapper"
	"gorm.io/gorm"

	"faceattend/config"
	"faceattend/db"
)

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusDeleted = "deleted"

	MatchMethodFaceRecognition = "face_recognition"
)

type Attendance struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UserID    uint64 `gorm:"index"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CourseID  uint64 `gorm:"index"`
	Course    Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Timestamp int64  `gorm:"index"`

	// Optional GPS fix sent by the capture device
	GpsLat      *float64
	GpsLong     *float64
	GpsAccuracy *float64

	ConfidenceScore  float64
	MatchMethod      string `gorm:"type:varchar(30)"`
	LivenessVerified bool

	// Academic info as of the time of marking
	YearOfStudy   string `gorm:"type:varchar(20)"`
	CourseProgram string `gorm:"type:varchar(100)"`
	UnitCode      string `gorm:"type:varchar(20)"`

	Status       string `gorm:"type:varchar(20)"`
	VerifiedByID *uint64
	Notes        string `gorm:"type:text"`

	IPAddress string `gorm:"type:varchar(45)"`
	UserAgent string `gorm:"type:varchar(255)"`
}

var (
	campusOnce     sync.Once
	campusTimezone *time.Location
)

func campusLocation() *time.Location {
	campusOnce.Do(func() {
		var err error
		campusTimezone, err = time.LoadLocation(config.TIMEZONE)
		if err != nil {
			log.Printf("Cannot load timezone %q, falling back to UTC: %v", config.TIMEZONE, err)
			campusTimezone = time.UTC
		}
	})
	return campusTimezone
}

// CampusLocation is the configured campus timezone
func CampusLocation() *time.Location {
	return campusLocation()
}

func (a *Attendance) location() *time.Location {
	if a.GpsLat != nil && a.GpsLong != nil {
		zone, err := time.LoadLocation(timezonemapper.LatLngToTimezoneString(*a.GpsLat, *a.GpsLong))
		if err == nil && zone != nil {
			return zone
		}
	}
	return campusLocation()
}

// GetTimeInLocation returns the attendance time in the timezone of the
// GPS fix when one was sent, or in the campus timezone otherwise
func (a *Attendance) GetTimeInLocation() time.Time {
	return time.Unix(a.Timestamp, 0).In(a.location())
}

// dayWindow returns the [from, to) unix second range of the local day
func dayWindow(at time.Time, loc *time.Location) (int64, int64) {
	local := at.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start.Unix(), start.AddDate(0, 0, 1).Unix()
}

func (a *Attendance) Create() error {
	if a.MatchMethod == "" {
		a.MatchMethod = MatchMethodFaceRecognition
	}
	if a.Status == "" {
		a.Status = AttendanceStatusPresent
	}
	return db.Instance.Create(a).Error
}

// FindExistingForDay returns the non-deleted record of the same user and
// course within the same local day, or nil. Different units on the same
// day and the same unit on different days are both allowed, only a
// duplicate of this unit today is not.
func (a *Attendance) FindExistingForDay() (*Attendance, error) {
	from, to := dayWindow(time.Unix(a.Timestamp, 0), a.location())
	var existing Attendance
	err := db.Instance.
		Where("user_id = ? AND course_id = ? AND timestamp >= ? AND timestamp < ? AND status <> ?",
			a.UserID, a.CourseID, from, to, AttendanceStatusDeleted).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// SoftDelete keeps the row for the audit trail
func (a *Attendance) SoftDelete(deletedBy *User, reason string) error {
	a.Status = AttendanceStatusDeleted
	a.VerifiedByID = &deletedBy.ID
	a.Notes = "Deleted by " + deletedBy.RegNumber + ": " + reason
	return db.Instance.Save(a).Error
}

// AttendancePurgeOlderThan hard-deletes records past the retention
// period and returns the number of rows removed
func AttendancePurgeOlderThan(cutoff int64) (int64, error) {
	result := db.Instance.Where("timestamp < ?", cutoff).Delete(&Attendance{})
	return result.RowsAffected, result.Error
}
