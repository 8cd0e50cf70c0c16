package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"faceattend/db"
	"faceattend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AttendanceEntry struct {
	ID               uint64  `json:"id"`
	CourseCode       string  `json:"course_code"`
	CourseName       string  `json:"course_name"`
	UnitCode         string  `json:"unit_code"`
	Timestamp        int64   `json:"timestamp"`
	LocalTime        string  `json:"local_time"`
	YearOfStudy      string  `json:"year_of_study,omitempty"`
	CourseProgram    string  `json:"course_program,omitempty"`
	Confidence       float64 `json:"confidence"`
	LivenessVerified bool    `json:"liveness_verified"`
	Status           string  `json:"status"`
	Method           string  `json:"method"`
}

type CourseAttendanceEntry struct {
	ID               uint64      `json:"id"`
	Student          StudentCard `json:"student"`
	Timestamp        int64       `json:"timestamp"`
	LocalTime        string      `json:"local_time"`
	YearOfStudy      string      `json:"year_of_study,omitempty"`
	CourseProgram    string      `json:"course_program,omitempty"`
	UnitCode         string      `json:"unit_code"`
	Confidence       float64     `json:"confidence"`
	LivenessVerified bool        `json:"liveness_verified"`
	Status           string      `json:"status"`
}

func courseAttendanceEntry(record *models.Attendance) CourseAttendanceEntry {
	card := studentCard(&record.User)
	card.Email = record.User.Email
	yearOfStudy := record.YearOfStudy
	if yearOfStudy == "" {
		yearOfStudy = record.User.YearOfStudy
	}
	courseProgram := record.CourseProgram
	if courseProgram == "" {
		courseProgram = record.User.CourseProgram
	}
	return CourseAttendanceEntry{
		ID:               record.ID,
		Student:          card,
		Timestamp:        record.Timestamp,
		LocalTime:        record.GetTimeInLocation().Format(time.RFC3339),
		YearOfStudy:      yearOfStudy,
		CourseProgram:    courseProgram,
		UnitCode:         record.UnitCode,
		Confidence:       record.ConfidenceScore,
		LivenessVerified: record.LivenessVerified,
		Status:           record.Status,
	}
}

// parseDateRange reads the optional start_date/end_date query params
// (YYYY-MM-DD) as a [from, to) unix range in the campus timezone.
// Responds with 400 itself and returns ok=false on bad input.
func parseDateRange(c *gin.Context) (from, to int64, ok bool) {
	loc := models.CampusLocation()
	if value := c.Query("start_date"); value != "" {
		parsed, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, use YYYY-MM-DD"})
			return 0, 0, false
		}
		from = parsed.Unix()
	}
	if value := c.Query("end_date"); value != "" {
		parsed, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, use YYYY-MM-DD"})
			return 0, 0, false
		}
		to = parsed.AddDate(0, 0, 1).Unix()
	}
	return from, to, true
}

func applyDateRange(query *gorm.DB, from, to int64) *gorm.DB {
	if from > 0 {
		query = query.Where("timestamp >= ?", from)
	}
	if to > 0 {
		query = query.Where("timestamp < ?", to)
	}
	return query
}

func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "50"))
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}
	return
}

// AttendanceList returns the attendance history of the logged-in user
func AttendanceList(c *gin.Context, user *models.User) {
	page, perPage := pageParams(c)
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	query := db.Instance.Model(&models.Attendance{}).
		Where("user_id = ? AND status <> ?", user.ID, models.AttendanceStatusDeleted)
	if courseID, _ := strconv.ParseUint(c.Query("course_id"), 10, 64); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	query = applyDateRange(query, from, to)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	records := []models.Attendance{}
	err := query.Joins("Course").Order("timestamp DESC").
		Offset((page - 1) * perPage).Limit(perPage).Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	result := []AttendanceEntry{}
	for i := range records {
		record := &records[i]
		yearOfStudy := record.YearOfStudy
		if yearOfStudy == "" {
			yearOfStudy = user.YearOfStudy
		}
		courseProgram := record.CourseProgram
		if courseProgram == "" {
			courseProgram = user.CourseProgram
		}
		result = append(result, AttendanceEntry{
			ID:               record.ID,
			CourseCode:       record.Course.Code,
			CourseName:       record.Course.Name,
			UnitCode:         record.UnitCode,
			Timestamp:        record.Timestamp,
			LocalTime:        record.GetTimeInLocation().Format(time.RFC3339),
			YearOfStudy:      yearOfStudy,
			CourseProgram:    courseProgram,
			Confidence:       record.ConfidenceScore,
			LivenessVerified: record.LivenessVerified,
			Status:           record.Status,
			Method:           record.MatchMethod,
		})
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)
	c.JSON(http.StatusOK, gin.H{
		"records": result,
		"pagination": gin.H{
			"page":     page,
			"per_page": perPage,
			"total":    total,
			"pages":    pages,
		},
	})
}

// AttendanceStats returns attendance statistics of the logged-in user
func AttendanceStats(c *gin.Context, user *models.User) {
	base := func() *gorm.DB {
		return db.Instance.Model(&models.Attendance{}).
			Where("user_id = ? AND status = ?", user.ID, models.AttendanceStatusPresent)
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	now := time.Now().In(models.CampusLocation())
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Unix()
	var thisMonth int64
	if err := base().Where("timestamp >= ?", firstOfMonth).Count(&thisMonth).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	var uniqueCourses int64
	if err := base().Distinct("course_id").Count(&uniqueCourses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError3Response)
		return
	}
	var lastAttendance interface{}
	last := models.Attendance{}
	if err := base().Order("timestamp DESC").First(&last).Error; err == nil {
		lastAttendance = last.GetTimeInLocation().Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, gin.H{
		"total":           total,
		"this_month":      thisMonth,
		"unique_courses":  uniqueCourses,
		"last_attendance": lastAttendance,
	})
}

// AttendanceCourse lists the check-ins of one course for instructors
func AttendanceCourse(c *gin.Context, user *models.User) {
	courseID, _ := strconv.ParseUint(c.Query("course_id"), 10, 64)
	if courseID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
		return
	}
	course := models.Course{}
	if err := db.Instance.First(&course, courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	query := db.Instance.Model(&models.Attendance{}).
		Where("course_id = ? AND status = ?", course.ID, models.AttendanceStatusPresent)
	query = applyDateRange(query, from, to)
	records := []models.Attendance{}
	if err := query.Joins("User").Order("timestamp DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	students := map[uint64]bool{}
	entries := []CourseAttendanceEntry{}
	for i := range records {
		students[records[i].UserID] = true
		if len(entries) < 100 {
			entries = append(entries, courseAttendanceEntry(&records[i]))
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"course_id": course.ID,
		"course": gin.H{
			"id":         course.ID,
			"code":       course.Code,
			"name":       course.Name,
			"department": course.Department,
		},
		"summary": gin.H{
			"total_records":   len(records),
			"unique_students": len(students),
		},
		"records": entries,
	})
}

// AttendanceUnit lists the check-ins of one unit code for instructors
func AttendanceUnit(c *gin.Context, user *models.User) {
	unitCode := c.Query("unit_code")
	if unitCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_code is required"})
		return
	}
	course := models.Course{}
	if err := db.Instance.First(&course, "code = ?", unitCode).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unit %s not found", unitCode)})
		return
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	query := db.Instance.Model(&models.Attendance{}).
		Where("course_id = ? AND status = ?", course.ID, models.AttendanceStatusPresent)
	if yearOfStudy := c.Query("year_of_study"); yearOfStudy != "" {
		query = query.Where("year_of_study = ?", yearOfStudy)
	}
	if courseProgram := c.Query("course_program"); courseProgram != "" {
		query = query.Where("course_program = ?", courseProgram)
	}
	query = applyDateRange(query, from, to)
	records := []models.Attendance{}
	if err := query.Joins("User").Order("timestamp DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	students := map[uint64]bool{}
	entries := []CourseAttendanceEntry{}
	for i := range records {
		students[records[i].UserID] = true
		entries = append(entries, courseAttendanceEntry(&records[i]))
	}
	summary := gin.H{
		"total_records":   len(records),
		"unique_students": len(students),
	}
	if len(records) > 0 {
		summary["date_range"] = gin.H{
			"from": records[len(records)-1].GetTimeInLocation().Format(time.RFC3339),
			"to":   records[0].GetTimeInLocation().Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"unit": gin.H{
			"code":       course.Code,
			"name":       course.Name,
			"department": course.Department,
		},
		"summary":  summary,
		"students": entries,
	})
}

type CourseReport struct {
	CourseID       uint64  `json:"course_id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Department     string  `json:"department,omitempty"`
	TotalCheckins  int     `json:"total_checkins"`
	UniqueStudents int     `json:"unique_students"`
	ClassDays      int     `json:"class_days"`
	AverageDaily   float64 `json:"average_daily"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func buildCourseReport(course *models.Course) (report CourseReport, err error) {
	report = CourseReport{
		CourseID:   course.ID,
		Code:       course.Code,
		Name:       course.Name,
		Department: course.Department,
	}
	rows, err := db.Instance.Model(&models.Attendance{}).
		Where("course_id = ? AND status = ?", course.ID, models.AttendanceStatusPresent).
		Select("user_id, timestamp").Rows()
	if err != nil {
		return
	}
	defer rows.Close()
	students := map[uint64]bool{}
	days := map[string]bool{}
	loc := models.CampusLocation()
	for rows.Next() {
		var userID uint64
		var timestamp int64
		if err = rows.Scan(&userID, &timestamp); err != nil {
			return
		}
		report.TotalCheckins++
		students[userID] = true
		days[time.Unix(timestamp, 0).In(loc).Format("2006-01-02")] = true
	}
	report.UniqueStudents = len(students)
	report.ClassDays = len(days)
	if report.ClassDays > 0 {
		report.AverageDaily = math.Round(float64(report.TotalCheckins)/float64(report.ClassDays)*100) / 100
	}
	if report.UniqueStudents > 0 && report.AverageDaily > 0 {
		report.AttendanceRate = math.Round(report.AverageDaily/float64(report.UniqueStudents)*10000) / 10000
	}
	return
}

// AttendanceReport summarizes every course of the instructor: totals,
// unique students, distinct class days and the share of known students
// present on an average day
func AttendanceReport(c *gin.Context, user *models.User) {
	courses, err := models.CoursesForInstructor(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	reports := []CourseReport{}
	for i := range courses {
		report, err := buildCourseReport(&courses[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		reports = append(reports, report)
	}
	c.JSON(http.StatusOK, gin.H{
		"courses":       reports,
		"total_courses": len(reports),
	})
}

// AttendanceExport returns the course register as CSV
func AttendanceExport(c *gin.Context, user *models.User) {
	unitCode := c.Query("unit_code")
	if unitCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit_code is required"})
		return
	}
	course := models.Course{}
	if err := db.Instance.First(&course, "code = ?", unitCode).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Unit %s not found", unitCode)})
		return
	}
	records := []models.Attendance{}
	err := db.Instance.Model(&models.Attendance{}).
		Where("course_id = ? AND status = ?", course.ID, models.AttendanceStatusPresent).
		Joins("User").Order("timestamp DESC").Find(&records).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	buf := bytes.Buffer{}
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{
		"Reg Number", "Full Name", "Email", "Year of Study",
		"Course Program", "Attendance Date", "Time", "Unit Code",
		"Confidence", "Status",
	})
	for i := range records {
		record := &records[i]
		yearOfStudy := record.YearOfStudy
		if yearOfStudy == "" {
			yearOfStudy = record.User.YearOfStudy
		}
		courseProgram := record.CourseProgram
		if courseProgram == "" {
			courseProgram = record.User.CourseProgram
		}
		localTime := record.GetTimeInLocation()
		_ = writer.Write([]string{
			record.User.RegNumber,
			record.User.FullName,
			record.User.Email,
			yearOfStudy,
			courseProgram,
			localTime.Format("2006-01-02"),
			localTime.Format("15:04:05"),
			unitCode,
			fmt.Sprintf("%.1f%%", record.ConfidenceScore*100),
			record.Status,
		})
	}
	writer.Flush()
	if err = writer.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"csv":           buf.String(),
		"filename":      fmt.Sprintf("%s_attendance_%s.csv", unitCode, time.Now().In(models.CampusLocation()).Format("20060102")),
		"total_records": len(records),
	})
}

// AttendanceDelete soft-deletes a record, keeping it for the audit trail
func AttendanceDelete(c *gin.Context, user *models.User) {
	attendanceID, _ := strconv.ParseUint(c.PostForm("attendance_id"), 10, 64)
	if attendanceID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance_id"})
		return
	}
	reason := c.PostForm("reason")
	if reason == "" {
		reason = "No reason provided"
	}
	record := models.Attendance{}
	if err := db.Instance.First(&record, attendanceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	if err := record.SoftDelete(user, reason); err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	models.LogAudit(models.AuditLog{
		ActorID:      &user.ID,
		Action:       models.AuditAttendanceDeleted,
		ResourceType: "attendance",
		ResourceID:   record.ID,
		IPAddress:    c.ClientIP(),
		StatusCode:   http.StatusOK,
		Notes:        reason,
	})
	c.JSON(http.StatusOK, gin.H{
		"message":    "Record deleted successfully",
		"record_id":  record.ID,
		"deleted_by": user.RegNumber,
	})
}
