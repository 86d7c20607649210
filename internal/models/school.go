package models

import "time"

type Subject struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subject) TableName() string { return "subjects" }

type Class struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:50"`
	CreatedAt time.Time `json:"created_at"`

	Students []ClassStudent `json:"students,omitempty" gorm:"foreignKey:ClassID"`
	Subjects []ClassSubject `json:"subjects,omitempty" gorm:"foreignKey:ClassID"`
}

func (Class) TableName() string { return "classes" }

// ClassStudent places a student in a class. A student belongs to at most one class.
type ClassStudent struct {
	ClassID   string `json:"class_id" gorm:"primaryKey;type:uuid"`
	StudentID string `json:"student_id" gorm:"primaryKey;type:uuid;uniqueIndex"`

	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (ClassStudent) TableName() string { return "class_students" }

// ClassSubject is a subject taught in a class, optionally by a teacher.
type ClassSubject struct {
	ClassID   string  `json:"class_id" gorm:"primaryKey;type:uuid"`
	SubjectID string  `json:"subject_id" gorm:"primaryKey;type:uuid"`
	TeacherID *string `json:"teacher_id,omitempty" gorm:"type:uuid"`

	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Teacher *Teacher `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

func (ClassSubject) TableName() string { return "class_subjects" }
