package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ListFilters struct {
	Query  string `json:"query"` // matches names or codes
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type GradeFilters struct {
	StudentIDs []string   `json:"student_ids"`
	TeacherID  *string    `json:"teacher_id"`
	SubjectID  *string    `json:"subject_id"`
	DateFrom   *time.Time `json:"date_from"`
	DateTo     *time.Time `json:"date_to"`
}

type NotificationFilters struct {
	UnreadOnly bool `json:"unread_only"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
}

// ===== IDENTITY =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)

	// UpdateLifecycle writes role and status together.
	UpdateLifecycle(ctx context.Context, id string, role models.UserRole, status models.UserStatus) error
}

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	List(ctx context.Context, filters ListFilters) ([]*models.Teacher, int64, error)
}

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	List(ctx context.Context, filters ListFilters) ([]*models.Student, int64, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUserID(ctx context.Context, userID string) (*models.Admin, error)
}

// ===== SCHOOL STRUCTURE =====

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	Delete(ctx context.Context, id string) error
}

type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context) ([]*models.Class, error)
	Delete(ctx context.Context, id string) error

	// Roster
	AddStudents(ctx context.Context, classID string, studentIDs []string) error
	RemoveStudent(ctx context.Context, classID, studentID string) error
	ListStudents(ctx context.Context, classID string) ([]*models.Student, error)
	CountStudents(ctx context.Context, classID string) (int64, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Class, error)

	// Subjects taught in a class
	AssignSubject(ctx context.Context, cs *models.ClassSubject) error
	RemoveSubject(ctx context.Context, classID, subjectID string) error
	ListSubjects(ctx context.Context, classID string) ([]*models.ClassSubject, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.ClassSubject, error)
	GetTeacherAssignment(ctx context.Context, classID, teacherID, subjectID string) (*models.ClassSubject, error)
}

// ===== GRADEBOOK =====

type MarkRepository interface {
	Create(ctx context.Context, mark *models.Mark) error
	GetByID(ctx context.Context, id string) (*models.Mark, error)
	Update(ctx context.Context, mark *models.Mark) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters GradeFilters) ([]*models.Mark, error)
}

type AbsenceRepository interface {
	Create(ctx context.Context, absence *models.Absence) error
	GetByID(ctx context.Context, id string) (*models.Absence, error)
	Update(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters GradeFilters) ([]*models.Absence, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByStudent(ctx context.Context, studentID string, filters NotificationFilters) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
