package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"faceattend/config"
	"faceattend/db"
	"faceattend/faces"
	"faceattend/models"
	"faceattend/notify"
	"faceattend/utils"

	"github.com/gin-gonic/gin"
)

type StudentCard struct {
	RegNumber     string `json:"reg_number"`
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	YearOfStudy   string `json:"year_of_study,omitempty"`
	CourseProgram string `json:"course_program,omitempty"`
}

// studentCard leaves out the email, the kiosk response is shown to
// whoever stands in front of the camera
func studentCard(user *models.User) StudentCard {
	return StudentCard{
		RegNumber:     user.RegNumber,
		FullName:      user.FullName,
		YearOfStudy:   user.YearOfStudy,
		CourseProgram: user.CourseProgram,
	}
}

// FaceEnroll stores the face encoding of the logged-in user. The
// uploaded photo is processed in memory and never written anywhere,
// only the 128-value encoding is kept.
func FaceEnroll(c *gin.Context, user *models.User) {
	if !user.ConsentGiven {
		c.JSON(http.StatusForbidden, gin.H{
			"error":  "Biometric consent required",
			"action": "Please provide consent at /user/consent",
		})
		return
	}
	raw, errMessage := readPhoto(c)
	if errMessage != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessage})
		return
	}
	normalized, err := faces.Preprocess(raw, config.MaxImageBytes(), config.MAX_IMAGE_DIMENSION)
	if err != nil {
		if errors.Is(err, faces.ErrImageTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Image too large. Max %dMB allowed", config.MAX_IMAGE_SIZE_MB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}
	location, err := faceEngine.ValidateQuality(normalized)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": qualityErrorMessage(err)})
		return
	}
	encoding, err := faceEngine.Encode(normalized, &location)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not encode face"})
		return
	}
	livenessResult := livenessChecker.Verify(normalized.JPEG, &location)
	if !livenessResult.Verified {
		models.LogAudit(models.AuditLog{
			ActorID:       &user.ID,
			Action:        models.AuditFaceEnrollFailed,
			ResourceType:  "face",
			IPAddress:     c.ClientIP(),
			StatusCode:    http.StatusUnprocessableEntity,
			ErrorMessage:  "Liveness check failed: " + livenessResult.Details,
			LivenessScore: &livenessResult.Confidence,
		})
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Liveness verification failed",
			"details":        livenessResult.Details,
			"liveness":       livenessResult,
			"security_alert": true,
		})
		return
	}
	user.SetFaceEncoding(encoding)
	if err = db.Instance.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Enrollment failed"})
		return
	}
	enrollConfidence := 1.0
	models.LogAudit(models.AuditLog{
		ActorID:             &user.ID,
		Action:              models.AuditFaceEnrolled,
		ResourceType:        "face",
		ResourceID:          user.ID,
		IPAddress:           c.ClientIP(),
		StatusCode:          http.StatusCreated,
		FaceMatchConfidence: &enrollConfidence,
		LivenessScore:       &livenessResult.Confidence,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message":             "Face enrolled successfully",
		"encoding_id":         fmt.Sprintf("enc_%d", user.ID),
		"liveness_verified":   true,
		"liveness_confidence": livenessResult.Confidence,
	})
}

// FaceRecognize identifies the person on the kiosk photo and marks
// attendance for the unit. Anonymous: the kiosk is not logged in.
func FaceRecognize(c *gin.Context) {
	unitCode := c.PostForm("unit_code")
	if unitCode == "" {
		unitCode = c.PostForm("course_code")
	}
	if unitCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unit code or course code required"})
		return
	}
	yearOfStudy := c.DefaultPostForm("year_of_study", "1")
	courseProgram := c.PostForm("course_program")

	raw, errMessage := readPhoto(c)
	if errMessage != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMessage})
		return
	}
	normalized, err := faces.Preprocess(raw, config.MaxImageBytes(), config.MAX_IMAGE_DIMENSION)
	if err != nil {
		if errors.Is(err, faces.ErrImageTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Image too large. Max %dMB allowed", config.MAX_IMAGE_SIZE_MB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image file"})
		return
	}
	location, err := faceEngine.ValidateQuality(normalized)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": qualityErrorMessage(err)})
		return
	}
	probe, err := faceEngine.Encode(normalized, &location)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not encode face"})
		return
	}
	livenessResult := livenessChecker.Verify(normalized.JPEG, &location)
	if !livenessResult.Verified {
		models.LogAudit(models.AuditLog{
			Action:        models.AuditRecognitionFailed,
			ResourceType:  "face",
			IPAddress:     c.ClientIP(),
			StatusCode:    http.StatusUnprocessableEntity,
			ErrorMessage:  "Liveness check failed: " + livenessResult.Details,
			LivenessScore: &livenessResult.Confidence,
		})
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "Liveness verification failed",
			"details":        livenessResult.Details,
			"security_alert": true,
		})
		return
	}

	enrolled, err := models.EnrolledUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recognition failed"})
		return
	}
	known := faces.FaceEncodingList{}
	candidates := []int{}
	for i := range enrolled {
		encoding := enrolled[i].GetFaceEncoding()
		if encoding == nil {
			continue
		}
		known = append(known, *encoding)
		candidates = append(candidates, i)
	}
	bestIndex, match := faces.FindBestMatch(known, *probe, config.FACE_TOLERANCE)
	if bestIndex < 0 || match.Confidence < config.FACE_TOLERANCE {
		confidence := 0.0
		if bestIndex >= 0 {
			confidence = match.Confidence
		}
		models.LogAudit(models.AuditLog{
			Action:       models.AuditRecognitionFailed,
			ResourceType: "face",
			IPAddress:    c.ClientIP(),
			StatusCode:   http.StatusNotFound,
			ErrorMessage: "No matching face found",
		})
		c.JSON(http.StatusNotFound, gin.H{
			"status":     "failed",
			"message":    "Face not recognized. Please enroll first.",
			"confidence": confidence,
		})
		return
	}
	student := enrolled[candidates[bestIndex]]

	course, err := models.CourseGetOrCreate(unitCode, courseProgram)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	record := models.Attendance{
		UserID:           student.ID,
		CourseID:         course.ID,
		Timestamp:        time.Now().Unix(),
		ConfidenceScore:  match.Confidence,
		LivenessVerified: livenessResult.Verified,
		YearOfStudy:      yearOfStudy,
		CourseProgram:    courseProgram,
		UnitCode:         unitCode,
		IPAddress:        c.ClientIP(),
		UserAgent:        c.Request.UserAgent(),
	}
	if value := c.PostForm("gps_lat"); value != "" {
		record.GpsLat = utils.StringToFloat64Ptr(value)
	}
	if value := c.PostForm("gps_long"); value != "" {
		record.GpsLong = utils.StringToFloat64Ptr(value)
	}
	if value := c.PostForm("gps_accuracy"); value != "" {
		record.GpsAccuracy = utils.StringToFloat64Ptr(value)
	}
	existing, err := record.FindExistingForDay()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":        "already_marked",
			"message":       "Attendance already recorded at " + existing.GetTimeInLocation().Format(time.RFC3339),
			"student":       studentCard(&student),
			"course":        unitCode,
			"attendance_id": existing.ID,
			"timestamp":     existing.Timestamp,
		})
		return
	}
	if err = record.Create(); err != nil {
		c.JSON(http.StatusInternalServerError, DBError3Response)
		return
	}
	models.LogAudit(models.AuditLog{
		ActorID:             &student.ID,
		Action:              models.AuditAttendanceMarked,
		ResourceType:        "attendance",
		ResourceID:          record.ID,
		IPAddress:           c.ClientIP(),
		StatusCode:          http.StatusCreated,
		FaceMatchConfidence: &match.Confidence,
		LivenessScore:       &livenessResult.Confidence,
	})
	event := notify.AttendanceEvent{
		ID:         record.ID,
		RegNumber:  student.RegNumber,
		FullName:   student.FullName,
		CourseCode: course.Code,
		UnitCode:   unitCode,
		Confidence: match.Confidence,
		Timestamp:  record.Timestamp,
	}
	go event.Publish()
	feedBroadcast(&record, &student, &course)

	c.JSON(http.StatusCreated, gin.H{
		"status":            "success",
		"message":           fmt.Sprintf("Attendance marked for %s - %s", student.FullName, unitCode),
		"student":           studentCard(&student),
		"course":            unitCode,
		"unit_code":         unitCode,
		"year_of_study":     yearOfStudy,
		"course_program":    courseProgram,
		"confidence":        match.Confidence,
		"liveness_verified": livenessResult.Verified,
		"attendance_id":     record.ID,
		"timestamp":         record.Timestamp,
	})
}
