package processing

import (
	"faceattend/config"
	"faceattend/models"
	"fmt"
	"log"
	"time"
)

const retentionCheckInterval = 24 * time.Hour

// purgeExpired removes attendance and audit records older than the
// configured retention period and leaves an audit entry for the purge.
func purgeExpired() {
	cutoff := time.Now().AddDate(-config.DATA_RETENTION_YEARS, 0, 0)
	purged, err := models.AttendancePurgeOlderThan(cutoff.Unix())
	if err != nil {
		log.Printf("Retention purge error: %v", err)
		return
	}
	auditPurged, err := models.AuditLogPurgeOlderThan(cutoff.Unix())
	if err != nil {
		log.Printf("Audit retention purge error: %v", err)
		return
	}
	if purged == 0 && auditPurged == 0 {
		return
	}
	log.Printf("Retention purge removed %d attendance and %d audit records older than %s",
		purged, auditPurged, cutoff.Format("2006-01-02"))
	models.LogAudit(models.AuditLog{
		Action:       models.AuditRetentionPurge,
		ResourceType: "attendance",
		StatusCode:   200,
		Notes:        fmt.Sprintf("Purged %d attendance and %d audit records older than %s", purged, auditPurged, cutoff.Format("2006-01-02")),
	})
}

// clearWithdrawnEncodings erases encodings whose owners have withdrawn
// consent. Normally a no-op, withdrawal already erases inline.
func clearWithdrawnEncodings() {
	cleared, err := models.UsersClearWithdrawnEncodings()
	if err != nil {
		log.Printf("Encoding sweep error: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("Encoding sweep cleared %d face encodings without consent", cleared)
	}
}

// StartProcessing runs the retention loop. Started as a goroutine from main.
func StartProcessing() {
	for {
		purgeExpired()
		clearWithdrawnEncodings()
		time.Sleep(retentionCheckInterval)
	}
}
