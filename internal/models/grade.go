package models

import "time"

const (
	MinMarkValue = 1.0
	MaxMarkValue = 10.0
)

type Mark struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	StudentID   string    `json:"student_id" gorm:"type:uuid;not null;index"`
	TeacherID   string    `json:"teacher_id" gorm:"type:uuid;not null;index"`
	SubjectID   string    `json:"subject_id" gorm:"type:uuid;not null"`
	Value       float64   `json:"value" gorm:"not null"`
	Description *string   `json:"description,omitempty" gorm:"size:500"`
	Date        time.Time `json:"date" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (Mark) TableName() string { return "marks" }

type Absence struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	StudentID   string    `json:"student_id" gorm:"type:uuid;not null;index"`
	TeacherID   string    `json:"teacher_id" gorm:"type:uuid;not null;index"`
	SubjectID   string    `json:"subject_id" gorm:"type:uuid;not null"`
	IsMotivated bool      `json:"is_motivated" gorm:"not null;default:false"`
	Description *string   `json:"description,omitempty" gorm:"size:500"`
	Date        time.Time `json:"date" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`

	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (Absence) TableName() string { return "absences" }
