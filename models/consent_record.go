package models

import (
	"faceattend/db"
)

const (
	ConsentTypeBiometric   = "biometric_processing"
	ConsentActionGiven     = "given"
	ConsentActionWithdrawn = "withdrawn"
)

// ConsentRecord is the append-only trail of consent changes
type ConsentRecord struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     int64
	UserID        uint64 `gorm:"index"`
	User          User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ConsentType   string `gorm:"type:varchar(50)"`
	Action        string `gorm:"type:varchar(20)"`
	PreviousValue bool
	NewValue      bool
	IPAddress     string `gorm:"type:varchar(45)"`
	UserAgent     string `gorm:"type:varchar(255)"`
	PolicyVersion string `gorm:"type:varchar(10)"`
	Reason        string `gorm:"type:text"`
}

func (r *ConsentRecord) Create() error {
	return db.Instance.Create(r).Error
}

// ConsentHistory returns the consent trail for a user, newest first
func ConsentHistory(userID uint64) (records []ConsentRecord, err error) {
	err = db.Instance.Where("user_id = ?", userID).Order("id DESC").Find(&records).Error
	return
}
