package handlers

import (
	"net/http"
	"strconv"

	"faceattend/models"

	"github.com/gin-gonic/gin"
)

// AuditList returns the audit trail, newest first. Supports action and
// actor_id filters.
func AuditList(c *gin.Context, user *models.User) {
	page, perPage := pageParams(c)
	actorID, _ := strconv.ParseUint(c.Query("actor_id"), 10, 64)
	logs, total, err := models.AuditLogList(page, perPage, c.Query("action"), actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)
	c.JSON(http.StatusOK, gin.H{
		"logs": logs,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
			"pages":    pages,
		},
	})
}
