package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	MYSQL_DSN    = ""              // MySQL will be used if this is set
	SQLITE_FILE  = "faceattend.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS = "0.0.0.0:8080"
	TLS_DOMAINS  = "" // e.g. "attend.example.ac.ke"
	DEBUG_MODE   = true

	// Face recognition
	FACE_MODELS_DIR     = "models" // dlib model files for the recognizer
	FACE_DETECT_CNN     = false    // Use Convolutional Neural Network for face detection (as opposed to HOG). Much slower, supposedly more accurate at different angles
	FACE_TOLERANCE      = 0.6      // Max distance between two encodings to consider them the same person
	MAX_IMAGE_SIZE_MB   = 5
	MAX_IMAGE_DIMENSION = 2048 // Larger uploads are downscaled before detection
	MIN_FACE_SIZE       = 80   // Min width/height in pixels of the detected face box

	// Liveness checks
	LIVENESS_THRESHOLD = 0.7 // Fraction of checks that must pass
	BLUR_THRESHOLD     = 100.0
	SKIN_RATIO_MIN     = 0.15
	SKIN_RATIO_MAX     = 0.60
	EYE_CASCADE_FILE   = "models/puploc" // pupil cascade file, eye check is skipped if missing

	// Compliance
	TIMEZONE             = "Africa/Nairobi" // Campus timezone for attendance day boundaries
	DATA_RETENTION_YEARS = 6
	CONSENT_VERSION      = "1.0"

	// Attendance event publishing (disabled when empty)
	MQTT_BROKER = ""
	MQTT_TOPIC  = "faceattend/attendance"
)

func init() {
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("FACE_MODELS_DIR", &FACE_MODELS_DIR)
	readEnvBool("FACE_DETECT_CNN", &FACE_DETECT_CNN)
	readEnvFloat("FACE_TOLERANCE", &FACE_TOLERANCE)
	readEnvInt("MAX_IMAGE_SIZE_MB", &MAX_IMAGE_SIZE_MB)
	readEnvInt("MAX_IMAGE_DIMENSION", &MAX_IMAGE_DIMENSION)
	readEnvInt("MIN_FACE_SIZE", &MIN_FACE_SIZE)
	readEnvFloat("LIVENESS_THRESHOLD", &LIVENESS_THRESHOLD)
	readEnvFloat("BLUR_THRESHOLD", &BLUR_THRESHOLD)
	readEnvFloat("SKIN_RATIO_MIN", &SKIN_RATIO_MIN)
	readEnvFloat("SKIN_RATIO_MAX", &SKIN_RATIO_MAX)
	readEnvString("EYE_CASCADE_FILE", &EYE_CASCADE_FILE)
	readEnvString("TIMEZONE", &TIMEZONE)
	readEnvInt("DATA_RETENTION_YEARS", &DATA_RETENTION_YEARS)
	readEnvString("CONSENT_VERSION", &CONSENT_VERSION)
	readEnvString("MQTT_BROKER", &MQTT_BROKER)
	readEnvString("MQTT_TOPIC", &MQTT_TOPIC)
}

// MaxImageBytes returns the upload size cap in bytes
func MaxImageBytes() int64 {
	return int64(MAX_IMAGE_SIZE_MB) * 1024 * 1024
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvFloat(name string, value *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*value = f
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
