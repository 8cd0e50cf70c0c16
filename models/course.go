package models

import (
	"errors"

	"gorm.io/gorm"

	"faceattend/db"
)

type Course struct {
	ID           uint64 `gorm:"primaryKey"`
	CreatedAt    int64
	Code         string `gorm:"type:varchar(20);index:uniq_course_code,unique"`
	Name         string `gorm:"type:varchar(100)"`
	Department   string `gorm:"type:varchar(50)"`
	InstructorID *uint64
	Instructor   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	IsActive     bool
}

// CourseGetOrCreate returns the course for a unit code, creating it on
// first use so attendance can be marked against any valid unit code
func CourseGetOrCreate(code, program string) (course Course, err error) {
	err = db.Instance.First(&course, "code = ?", code).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	department := program
	if department == "" {
		department = "General"
	}
	course = Course{
		Code:       code,
		Name:       code + " - " + department,
		Department: department,
		IsActive:   true,
	}
	err = db.Instance.Create(&course).Error
	return
}

// CoursesForInstructor returns the active courses the instructor teaches.
// Admins see all active courses.
func CoursesForInstructor(user *User) (courses []Course, err error) {
	query := db.Instance.Where("is_active = ?", true)
	if user.Role != RoleAdmin {
		query = query.Where("instructor_id = ?", user.ID)
	}
	err = query.Order("code").Find(&courses).Error
	return
}
