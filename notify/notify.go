package notify

import (
	"encoding/json"
	"faceattend/config"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const EventTypeAttendanceMarked = "attendance_marked"

var client mqtt.Client

// AttendanceEvent is published to the campus MQTT broker whenever a
// check-in is recorded. Display boards and the attendance dashboard
// subscribe to config.MQTT_TOPIC.
type AttendanceEvent struct {
	Type       string  `json:"type"`
	ID         uint64  `json:"attendance_id"`
	RegNumber  string  `json:"reg_number"`
	FullName   string  `json:"full_name"`
	CourseCode string  `json:"course_code"`
	UnitCode   string  `json:"unit_code"`
	Confidence float64 `json:"confidence"`
	Timestamp  int64   `json:"timestamp"`
}

// Init connects to the MQTT broker if one is configured. Without a
// broker the publisher stays disabled and PublishAttendance is a no-op.
func Init() {
	if config.MQTT_BROKER == "" {
		log.Println("MQTT broker not configured, attendance events disabled")
		return
	}
	clientID := uuid.New().String()
	log.Println("Connecting to MQTT", config.MQTT_BROKER, "with client ID:", clientID)
	opts := mqtt.NewClientOptions().AddBroker(config.MQTT_BROKER).SetClientID(clientID)
	opts.SetKeepAlive(2 * time.Second)
	opts.SetPingTimeout(1 * time.Second)
	opts.SetConnectTimeout(30 * time.Second)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(c mqtt.Client) {
		log.Println("Connected to MQTT")
	}
	candidate := mqtt.NewClient(opts)
	if token := candidate.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("MQTT connect error: %v", token.Error())
		return
	}
	client = candidate
}

func (event *AttendanceEvent) Publish() error {
	if client == nil {
		return nil
	}
	event.Type = EventTypeAttendanceMarked
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if token := client.Publish(config.MQTT_TOPIC, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("PublishAttendance error: %v", token.Error())
		return token.Error()
	}
	return nil
}
