package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"faceattend/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// SendSocketFunc returns true if data was successfully sent
type SendSocketFunc func([]byte) bool

type FeedClient struct {
	fun SendSocketFunc
}

// FeedClients is needed as a course can be watched on several screens
type FeedClients []*FeedClient

// Admins without a course filter watch everything
const feedAllKey = "all"

var (
	feedSubscribers = cmap.New[FeedClients]()
	upgrader        = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
)

func addFeedClient(key string, client *FeedClient) {
	feedSubscribers.Upsert(key, FeedClients{client}, func(exist bool, valueInMap, newValue FeedClients) FeedClients {
		if exist {
			return append(valueInMap, client)
		}
		return newValue
	})
}

func removeFeedClient(key string, client *FeedClient) {
	feedSubscribers.Upsert(key, FeedClients{}, func(exist bool, valueInMap, newValue FeedClients) FeedClients {
		if !exist {
			return newValue
		}
		for _, other := range valueInMap {
			if other == client {
				continue
			}
			newValue = append(newValue, other)
		}
		return newValue
	})
}

type FeedEvent struct {
	Type         string  `json:"type"`
	AttendanceID uint64  `json:"attendance_id"`
	CourseID     uint64  `json:"course_id"`
	CourseCode   string  `json:"course_code"`
	UnitCode     string  `json:"unit_code"`
	RegNumber    string  `json:"reg_number"`
	FullName     string  `json:"full_name"`
	Confidence   float64 `json:"confidence"`
	Timestamp    int64   `json:"timestamp"`
	LocalTime    string  `json:"local_time"`
}

// feedBroadcast pushes a new check-in to everyone watching the course
// and to the subscribers watching all courses
func feedBroadcast(record *models.Attendance, student *models.User, course *models.Course) {
	event := FeedEvent{
		Type:         "attendance_marked",
		AttendanceID: record.ID,
		CourseID:     course.ID,
		CourseCode:   course.Code,
		UnitCode:     record.UnitCode,
		RegNumber:    student.RegNumber,
		FullName:     student.FullName,
		Confidence:   record.ConfidenceScore,
		Timestamp:    record.Timestamp,
		LocalTime:    record.GetTimeInLocation().Format(time.RFC3339),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	for _, key := range []string{strconv.FormatUint(course.ID, 10), feedAllKey} {
		clients, ok := feedSubscribers.Get(key)
		if !ok {
			continue
		}
		for _, client := range clients {
			client.fun(data)
		}
	}
}

// AttendanceFeed streams live check-ins over a websocket. Instructors
// watch one course, admins may leave course_id out to watch all.
func AttendanceFeed(c *gin.Context, user *models.User) {
	key := c.Query("course_id")
	if key == "" {
		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "course_id is required"})
			return
		}
		key = feedAllKey
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer conn.Close()

	// Setup client
	isConnected := true
	client := FeedClient{}
	client.fun = func(data []byte) bool {
		if !isConnected {
			return false
		}
		err := conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			log.Println("write err:", err)
			isConnected = false
			return false
		}
		return true
	}
	addFeedClient(key, &client)
	defer removeFeedClient(key, &client)
	// Main read cycle
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			log.Println("read err:", err)
			isConnected = false
			break
		}
		if string(message) == "ping" {
			conn.WriteMessage(mt, []byte("pong"))
		}
	}
}
