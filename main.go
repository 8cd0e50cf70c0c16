package main

import (
	"log"
	"strings"
	"time"

	"faceattend/auth"
	"faceattend/config"
	"faceattend/db"
	"faceattend/faces"
	"faceattend/handlers"
	"faceattend/liveness"
	"faceattend/models"
	"faceattend/notify"
	"faceattend/processing"
	"faceattend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionStoreKey       = "this is a long key" // TODO: convert to env variable
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	db.Init()
	models.Init()

	engine, err := faces.NewEngine(faces.EngineConfig{
		ModelsDir:   config.FACE_MODELS_DIR,
		UseCNN:      config.FACE_DETECT_CNN,
		MinFaceSize: config.MIN_FACE_SIZE,
	})
	if err != nil {
		log.Fatalf("Cannot load face models from %s: %v", config.FACE_MODELS_DIR, err)
	}
	defer engine.Close()
	checker := liveness.NewChecker(liveness.CheckerConfig{
		Threshold:      config.LIVENESS_THRESHOLD,
		BlurThreshold:  config.BLUR_THRESHOLD,
		SkinRatioMin:   config.SKIN_RATIO_MIN,
		SkinRatioMax:   config.SKIN_RATIO_MAX,
		EyeCascadeFile: config.EYE_CASCADE_FILE,
	})
	handlers.Init(engine, checker)
	notify.Init()
	go processing.StartProcessing()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(sessionStoreKey))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	router.Use(utils.PrivacyHeaders)
	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// User handlers
	router.POST("/user/register", handlers.UserRegister)
	router.POST("/user/login", handlers.UserLogin)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.GET("/user/consent", handlers.UserConsentGet)
	authRouter.POST("/user/consent", handlers.UserConsentGrant)
	authRouter.POST("/user/consent/withdraw", handlers.UserConsentWithdraw)
	authRouter.POST("/user/data-request", handlers.UserDataRequest)
	// Face handlers
	authRouter.POST("/face/enroll", handlers.FaceEnroll) // Consent check is done inside the handler
	router.POST("/face/recognize", handlers.FaceRecognize) // Kiosk endpoint, not logged in
	// Attendance handlers
	authRouter.GET("/attendance/list", handlers.AttendanceList)
	authRouter.GET("/attendance/stats", handlers.AttendanceStats)
	authRouter.GET("/attendance/course", handlers.AttendanceCourse, models.RoleInstructor)
	authRouter.GET("/attendance/unit", handlers.AttendanceUnit, models.RoleInstructor)
	authRouter.GET("/attendance/report", handlers.AttendanceReport, models.RoleInstructor)
	authRouter.GET("/attendance/export", handlers.AttendanceExport, models.RoleInstructor)
	authRouter.POST("/attendance/delete", handlers.AttendanceDelete, models.RoleInstructor)
	authRouter.GET("/attendance/feed", handlers.AttendanceFeed, models.RoleInstructor)
	// Course handlers
	authRouter.GET("/course/list", handlers.CourseList, models.RoleInstructor)
	authRouter.POST("/course/save", handlers.CourseSave, models.RoleInstructor)
	// Audit trail
	authRouter.GET("/audit/list", handlers.AuditList, models.RoleAdmin)

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
