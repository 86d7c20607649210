package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	Source  = "marktrack-service"
	Version = "1.0"
)

type EventType string

const (
	EventRoleAssigned     EventType = "user.role_assigned"
	EventProfileCompleted EventType = "user.profile_completed"
	EventMarkRecorded     EventType = "grade.mark_recorded"
	EventAbsenceRecorded  EventType = "grade.absence_recorded"
)

// Event is the envelope carried on every topic.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Source    string          `json:"source"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent wraps data in a fresh envelope.
func NewEvent(eventType EventType, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Decode unmarshals the payload into dest.
func (e *Event) Decode(dest any) error {
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

type RoleAssignedData struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	StudentID string `json:"student_id,omitempty"`
}

type ProfileCompletedData struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	ProfileID string `json:"profile_id"`
}

type MarkRecordedData struct {
	MarkID      string    `json:"mark_id"`
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	SubjectID   string    `json:"subject_id"`
	Value       float64   `json:"value"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type AbsenceRecordedData struct {
	AbsenceID   string    `json:"absence_id"`
	StudentID   string    `json:"student_id"`
	TeacherID   string    `json:"teacher_id"`
	SubjectID   string    `json:"subject_id"`
	IsMotivated bool      `json:"is_motivated"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

// Topic returns the broker topic for an event type.
func Topic(prefix string, eventType EventType) string {
	if prefix == "" {
		return string(eventType)
	}
	return prefix + "." + string(eventType)
}
