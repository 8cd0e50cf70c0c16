package handlers

import (
	"net/http"

	"faceattend/db"
	"faceattend/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CourseSaveRequest struct {
	ID           uint64 `form:"id"`
	Code         string `form:"code"`
	Name         string `form:"name"`
	Department   string `form:"department"`
	InstructorID uint64 `form:"instructor_id"`
	IsActive     *bool  `form:"is_active"`
}

type CourseInfo struct {
	ID           uint64  `json:"id"`
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Department   string  `json:"department,omitempty"`
	InstructorID *uint64 `json:"instructor_id,omitempty"`
	IsActive     bool    `json:"is_active"`
}

func courseInfo(course *models.Course) CourseInfo {
	return CourseInfo{
		ID:           course.ID,
		Code:         course.Code,
		Name:         course.Name,
		Department:   course.Department,
		InstructorID: course.InstructorID,
		IsActive:     course.IsActive,
	}
}

func CourseList(c *gin.Context, user *models.User) {
	courses, err := models.CoursesForInstructor(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	result := []CourseInfo{}
	for i := range courses {
		result = append(result, courseInfo(&courses[i]))
	}
	c.JSON(http.StatusOK, result)
}

func CourseSave(c *gin.Context, user *models.User) {
	postReq := CourseSaveRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if postReq.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty course code"})
		return
	}
	course := models.Course{}
	if postReq.ID == 0 {
		var count int64
		db.Instance.Model(&models.Course{}).Where("code = ?", postReq.Code).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Course code already exists"})
			return
		}
		course = models.Course{
			Code:       postReq.Code,
			Name:       postReq.Name,
			Department: postReq.Department,
			IsActive:   true,
		}
		if course.Name == "" {
			course.Name = course.Code
		}
		if user.Role == models.RoleAdmin && postReq.InstructorID > 0 {
			course.InstructorID = &postReq.InstructorID
		} else {
			course.InstructorID = &user.ID
		}
		if postReq.IsActive != nil {
			course.IsActive = *postReq.IsActive
		}
		if err := db.Instance.Create(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, DBError1Response)
			return
		}
	} else {
		if err := db.Instance.First(&course, postReq.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		if user.Role != models.RoleAdmin && (course.InstructorID == nil || *course.InstructorID != user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		course.Code = postReq.Code
		if postReq.Name != "" {
			course.Name = postReq.Name
		}
		if postReq.Department != "" {
			course.Department = postReq.Department
		}
		if user.Role == models.RoleAdmin && postReq.InstructorID > 0 {
			course.InstructorID = &postReq.InstructorID
		}
		if postReq.IsActive != nil {
			course.IsActive = *postReq.IsActive
		}
		if err := db.Instance.Save(&course).Error; err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
	}
	c.JSON(http.StatusOK, courseInfo(&course))
}
