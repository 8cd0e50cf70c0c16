package handlers

import (
	"errors"
	"io"

	"faceattend/faces"
	"faceattend/liveness"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var (
	// Predefined errors
	OKResponse       = Response{}
	DBError1Response = Response{"DB Error 1"}
	DBError2Response = Response{"DB Error 2"}
	DBError3Response = Response{"DB Error 3"}
)

var (
	faceEngine      *faces.Engine
	livenessChecker *liveness.Checker
)

// Init wires the shared face engine and liveness checker into the
// enrollment and recognition handlers
func Init(engine *faces.Engine, checker *liveness.Checker) {
	faceEngine = engine
	livenessChecker = checker
}

// readPhoto reads the uploaded "photo" multipart file. The second
// return value is an error message ready for the client.
func readPhoto(c *gin.Context) ([]byte, string) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return nil, "No photo uploaded"
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "Cannot read photo"
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "Cannot read photo"
	}
	if len(raw) == 0 {
		return nil, "Empty image file"
	}
	return raw, ""
}

func qualityErrorMessage(err error) string {
	switch {
	case errors.Is(err, faces.ErrNoFaceDetected):
		return "No face detected"
	case errors.Is(err, faces.ErrMultipleFaces):
		return "Multiple faces detected"
	case errors.Is(err, faces.ErrFaceTooSmall):
		return "Face too small"
	}
	return "Image quality check failed"
}
