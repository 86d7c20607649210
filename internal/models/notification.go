package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationKind string

const (
	NotificationMark    NotificationKind = "mark"
	NotificationAbsence NotificationKind = "absence"
)

// Notification tells a student about a mark or absence recorded for them.
// Payload keeps the originating event body for clients that need more detail.
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;type:uuid"`
	StudentID   string           `json:"student_id" gorm:"type:uuid;not null;index"`
	TeacherID   string           `json:"teacher_id" gorm:"type:uuid;not null"`
	SubjectID   string           `json:"subject_id" gorm:"type:uuid;not null"`
	Kind        NotificationKind `json:"kind" gorm:"not null;size:20"`
	Value       *float64         `json:"value,omitempty"`
	IsMotivated *bool            `json:"is_motivated,omitempty"`
	Description *string          `json:"description,omitempty" gorm:"size:500"`
	Date        time.Time        `json:"date" gorm:"not null"`
	IsRead      bool             `json:"is_read" gorm:"not null;default:false"`
	Payload     datatypes.JSON   `json:"payload,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time        `json:"created_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (Notification) TableName() string { return "notifications" }
