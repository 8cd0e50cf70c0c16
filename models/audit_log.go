package models

import (
	"log"

	"faceattend/db"
)

const (
	AuditUserRegistered    = "user_registered"
	AuditLoginSuccess      = "login_success"
	AuditLoginFailed       = "login_failed"
	AuditLogout            = "logout"
	AuditConsentGiven      = "consent_given"
	AuditConsentWithdrawn  = "consent_withdrawn"
	AuditFaceEnrolled      = "face_enrolled"
	AuditFaceEnrollFailed  = "face_enroll_failed"
	AuditRecognitionFailed = "face_recognition_failed"
	AuditAttendanceMarked  = "attendance_marked"
	AuditAttendanceDeleted = "attendance_deleted"
	AuditRetentionPurge    = "retention_purge"
	AuditDataRequestPrefix = "data_request_"
)

// AuditLog records every action that touches biometric or attendance
// data. Rows are only ever appended.
type AuditLog struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt int64   `gorm:"index" json:"created_at"`
	ActorID   *uint64 `gorm:"index" json:"actor_id"`

	Action       string `gorm:"type:varchar(50);index" json:"action"`
	ResourceType string `gorm:"type:varchar(30)" json:"resource_type"`
	ResourceID   uint64 `json:"resource_id"`

	IPAddress     string `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent     string `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	RequestMethod string `gorm:"type:varchar(10)" json:"request_method,omitempty"`
	RequestPath   string `gorm:"type:varchar(255)" json:"request_path,omitempty"`

	StatusCode   int    `json:"status_code"`
	ErrorMessage string `gorm:"type:text" json:"error_message,omitempty"`

	FaceMatchConfidence *float64 `json:"face_match_confidence,omitempty"`
	LivenessScore       *float64 `json:"liveness_score,omitempty"`

	Notes string `gorm:"type:varchar(500)" json:"notes,omitempty"`
}

// LogAudit appends an audit entry. Failures are logged and swallowed so
// auditing never breaks the request being audited.
func LogAudit(entry AuditLog) {
	if len(entry.Notes) > 500 {
		entry.Notes = entry.Notes[:500]
	}
	if err := db.Instance.Create(&entry).Error; err != nil {
		log.Printf("Cannot save audit log entry %q: %v", entry.Action, err)
	}
}

// AuditLogList returns audit entries, newest first. Action and actorID
// narrow the listing when non-zero.
func AuditLogList(page, perPage int, action string, actorID uint64) (logs []AuditLog, total int64, err error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}
	query := db.Instance.Model(&AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if actorID > 0 {
		query = query.Where("actor_id = ?", actorID)
	}
	if err = query.Count(&total).Error; err != nil {
		return
	}
	err = query.Order("id DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&logs).Error
	return
}

// AuditLogPurgeOlderThan deletes audit entries created before the
// cutoff and returns the number of rows removed
func AuditLogPurgeOlderThan(cutoff int64) (int64, error) {
	result := db.Instance.Where("created_at < ?", cutoff).Delete(&AuditLog{})
	return result.RowsAffected, result.Error
}
