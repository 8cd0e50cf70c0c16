package handlers

import (
	"net/http"
	"time"

	"faceattend/auth"
	"faceattend/config"
	"faceattend/db"
	"faceattend/models"
	"faceattend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserRegisterRequest struct {
	RegNumber     string `form:"reg_number" binding:"required"`
	Email         string `form:"email" binding:"required"`
	Password      string `form:"password" binding:"required"`
	FullName      string `form:"full_name" binding:"required"`
	CourseProgram string `form:"course_program" binding:"required"`
	Phone         string `form:"phone"`
	YearOfStudy   string `form:"year_of_study"`
	Role          string `form:"role"`
	// Both consents must be explicitly ticked
	ConsentBiometric bool `form:"consent_biometric"`
	ConsentStorage   bool `form:"consent_storage"`
}

type UserLoginRequest struct {
	RegNumber string `form:"reg_number"`
	Email     string `form:"email"`
	Password  string `form:"password"`
}

type UserInfo struct {
	ID            uint64 `json:"id"`
	RegNumber     string `json:"reg_number"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	YearOfStudy   string `json:"year_of_study,omitempty"`
	CourseProgram string `json:"course_program,omitempty"`
	ConsentGiven  bool   `json:"consent_given"`
	FaceEnrolled  bool   `json:"face_enrolled"`
	LastLogin     int64  `json:"last_login,omitempty"`
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:            user.ID,
		RegNumber:     user.RegNumber,
		Email:         user.Email,
		FullName:      user.FullName,
		Phone:         user.Phone,
		Role:          user.Role.String(),
		YearOfStudy:   user.YearOfStudy,
		CourseProgram: user.CourseProgram,
		ConsentGiven:  user.ConsentGiven,
		FaceEnrolled:  user.HasFaceEnrolled(),
		LastLogin:     user.LastLogin,
	}
}

func UserRegister(c *gin.Context) {
	postReq := UserRegisterRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !postReq.ConsentBiometric {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Biometric consent is required"})
		return
	}
	if !postReq.ConsentStorage {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Data storage consent is required"})
		return
	}
	var count int64
	db.Instance.Model(&models.User{}).Where("reg_number = ?", postReq.RegNumber).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Registration number already exists"})
		return
	}
	db.Instance.Model(&models.User{}).Where("email = ?", postReq.Email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	user := models.User{
		RegNumber:     postReq.RegNumber,
		Email:         postReq.Email,
		FullName:      postReq.FullName,
		Phone:         postReq.Phone,
		YearOfStudy:   postReq.YearOfStudy,
		CourseProgram: postReq.CourseProgram,
		Role:          models.RoleFromString(postReq.Role),
		IsActive:      true,
	}
	user.SetPassword(postReq.Password)
	user.GiveConsent(c.ClientIP(), config.CONSENT_VERSION)
	if err = db.Instance.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed. Please try again."})
		return
	}
	consentLog := models.ConsentRecord{
		UserID:        user.ID,
		ConsentType:   models.ConsentTypeBiometric,
		Action:        models.ConsentActionGiven,
		NewValue:      true,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
		PolicyVersion: config.CONSENT_VERSION,
	}
	if err = consentLog.Create(); err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	models.LogAudit(models.AuditLog{
		ActorID:      &user.ID,
		Action:       models.AuditUserRegistered,
		ResourceType: "user",
		ResourceID:   user.ID,
		IPAddress:    c.ClientIP(),
		StatusCode:   http.StatusCreated,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Please login.",
		"user_id": user.ID,
		"role":    user.Role.String(),
	})
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	_ = c.ShouldBindWith(&postReq, binding.Form)
	identifier := postReq.RegNumber
	if identifier == "" {
		identifier = postReq.Email
	}
	if identifier == "" || postReq.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration number/email and password required"})
		return
	}
	user, success := models.UserLogin(identifier, postReq.Password)
	if !success {
		models.LogAudit(models.AuditLog{
			Action:       models.AuditLoginFailed,
			ResourceType: "auth",
			IPAddress:    c.ClientIP(),
			StatusCode:   http.StatusUnauthorized,
			ErrorMessage: "Invalid credentials",
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	user.LastLogin = time.Now().Unix()
	db.Instance.Save(&user)
	session := auth.LoadSession(c)
	session.LoginUser(&user)
	models.LogAudit(models.AuditLog{
		ActorID:      &user.ID,
		Action:       models.AuditLoginSuccess,
		ResourceType: "session",
		IPAddress:    c.ClientIP(),
		StatusCode:   http.StatusOK,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userInfo(&user),
		"role":    user.Role.String(),
	})
}

func UserLogout(c *gin.Context, user *models.User) {
	session := auth.LoadSession(c)
	session.LogoutUser()
	models.LogAudit(models.AuditLog{
		ActorID:      &user.ID,
		Action:       models.AuditLogout,
		ResourceType: "session",
		StatusCode:   http.StatusOK,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func UserGetStatus(c *gin.Context, user *models.User) {
	c.JSON(http.StatusOK, userInfo(user))
}

type ConsentHistoryEntry struct {
	CreatedAt     int64  `json:"created_at"`
	ConsentType   string `json:"consent_type"`
	Action        string `json:"action"`
	PolicyVersion string `json:"policy_version"`
	Reason        string `json:"reason,omitempty"`
}

func UserConsentGet(c *gin.Context, user *models.User) {
	records, err := models.ConsentHistory(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	history := []ConsentHistoryEntry{}
	for _, record := range records {
		history = append(history, ConsentHistoryEntry{
			CreatedAt:     record.CreatedAt,
			ConsentType:   record.ConsentType,
			Action:        record.Action,
			PolicyVersion: record.PolicyVersion,
			Reason:        record.Reason,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"current_consent": gin.H{
			"biometric_processing": user.ConsentGiven,
			"version":              user.ConsentVersion,
			"timestamp":            user.ConsentTimestamp,
		},
		"history": history,
	})
}

func UserConsentGrant(c *gin.Context, user *models.User) {
	previous := user.ConsentGiven
	if !previous {
		user.GiveConsent(c.ClientIP(), config.CONSENT_VERSION)
		if err := db.Instance.Save(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, DBError1Response)
			return
		}
		consentLog := models.ConsentRecord{
			UserID:        user.ID,
			ConsentType:   models.ConsentTypeBiometric,
			Action:        models.ConsentActionGiven,
			PreviousValue: previous,
			NewValue:      true,
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			PolicyVersion: config.CONSENT_VERSION,
		}
		if err := consentLog.Create(); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		models.LogAudit(models.AuditLog{
			ActorID:      &user.ID,
			Action:       models.AuditConsentGiven,
			ResourceType: "consent",
			IPAddress:    c.ClientIP(),
			StatusCode:   http.StatusOK,
		})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consent updated", "consent_status": user.ConsentGiven})
}

func UserConsentWithdraw(c *gin.Context, user *models.User) {
	if user.ConsentGiven {
		reason := c.PostForm("reason")
		if reason == "" {
			reason = "User requested withdrawal"
		}
		user.WithdrawConsent()
		if err := db.Instance.Save(user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, DBError1Response)
			return
		}
		consentLog := models.ConsentRecord{
			UserID:        user.ID,
			ConsentType:   models.ConsentTypeBiometric,
			Action:        models.ConsentActionWithdrawn,
			PreviousValue: true,
			NewValue:      false,
			IPAddress:     c.ClientIP(),
			UserAgent:     c.Request.UserAgent(),
			PolicyVersion: config.CONSENT_VERSION,
			Reason:        reason,
		}
		if err := consentLog.Create(); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		models.LogAudit(models.AuditLog{
			ActorID:      &user.ID,
			Action:       models.AuditConsentWithdrawn,
			ResourceType: "consent",
			IPAddress:    c.ClientIP(),
			StatusCode:   http.StatusOK,
		})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consent updated", "consent_status": user.ConsentGiven})
}

// UserDataRequest records a data subject rights request. Processing is
// manual, the endpoint only files and acknowledges the request.
func UserDataRequest(c *gin.Context, user *models.User) {
	requestType := c.PostForm("type")
	switch requestType {
	case "access", "rectification", "erasure", "restriction", "portability":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid types: access, rectification, erasure, restriction, portability"})
		return
	}
	requestID := "dsr_" + utils.Rand8BytesToBase62()
	models.LogAudit(models.AuditLog{
		ActorID:      &user.ID,
		Action:       models.AuditDataRequestPrefix + requestType,
		ResourceType: "data_subject_request",
		IPAddress:    c.ClientIP(),
		StatusCode:   http.StatusAccepted,
		Notes:        requestID,
	})
	c.JSON(http.StatusAccepted, gin.H{
		"request_id":         requestID,
		"status":             "received",
		"estimated_response": "30 days per Data Protection Act Section 35",
	})
}
