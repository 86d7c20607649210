package services

import (
	"context"

	"github.com/SAP-F-2025/marktrack-service/internal/events"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
	"github.com/SAP-F-2025/marktrack-service/internal/repositories"
	"github.com/SAP-F-2025/marktrack-service/internal/validator"
)

// ===== REQUEST DTOs =====

type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest

type AssignRoleRequest = validator.AssignRoleRequest
type TeacherDetailsRequest = validator.TeacherDetailsRequest
type StudentDetailsRequest = validator.StudentDetailsRequest

type CreateClassRequest = validator.CreateClassRequest
type CreateSubjectRequest = validator.CreateSubjectRequest
type AddStudentsRequest = validator.AddStudentsRequest
type AssignClassSubjectRequest = validator.AssignClassSubjectRequest

type CreateMarkRequest = validator.CreateMarkRequest
type UpdateMarkRequest = validator.UpdateMarkRequest
type CreateAbsenceRequest = validator.CreateAbsenceRequest
type UpdateAbsenceRequest = validator.UpdateAbsenceRequest

// ===== RESPONSE DTOs =====

// GradebookExport is a rendered spreadsheet ready to be streamed
type GradebookExport struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ===== SERVICES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*models.TokenResponse, error)
	Me(ctx context.Context, userID string) (*models.UserResponse, error)
}

// RoleService moves a pending user onto a role.
type RoleService interface {
	AssignRole(ctx context.Context, userID string, req *AssignRoleRequest) (*models.TokenResponse, error)
}

// ProfileService completes and reads role profiles.
type ProfileService interface {
	CompleteTeacherProfile(ctx context.Context, userID string, req *TeacherDetailsRequest) (*models.ProfileCompletionResponse, error)
	CompleteStudentProfile(ctx context.Context, userID string, req *StudentDetailsRequest) (*models.ProfileCompletionResponse, error)
	GetTeacherProfile(ctx context.Context, userID string) (*models.TeacherProfileResponse, error)
	GetStudentProfile(ctx context.Context, userID string) (*models.StudentProfileResponse, error)
}

type SubjectService interface {
	List(ctx context.Context) ([]*models.Subject, error)
	Create(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error)
	Delete(ctx context.Context, id string) error
}

// ClassService holds the administrative operations on classes.
type ClassService interface {
	CreateClass(ctx context.Context, req *CreateClassRequest) (*models.ClassResponse, error)
	ListClasses(ctx context.Context) ([]*models.ClassResponse, error)
	DeleteClass(ctx context.Context, id string) error

	AddStudents(ctx context.Context, classID string, req *AddStudentsRequest) error
	RemoveStudent(ctx context.Context, classID, studentID string) error

	AssignSubject(ctx context.Context, classID string, req *AssignClassSubjectRequest) (*models.ClassSubjectResponse, error)
	RemoveSubject(ctx context.Context, classID, subjectID string) error
	ListClassSubjects(ctx context.Context, classID string) ([]*models.ClassSubjectResponse, error)

	ListTeachers(ctx context.Context, filters repositories.ListFilters) (*models.ListResponse[*models.Teacher], error)
	ListStudents(ctx context.Context, filters repositories.ListFilters) (*models.ListResponse[*models.Student], error)
}

// GradeService is the teacher's gradebook.
type GradeService interface {
	ListClasses(ctx context.Context, userID string) ([]*models.TeacherClassResponse, error)
	GetClassRoster(ctx context.Context, userID, classID string) (*models.ClassRosterResponse, error)

	RecordMark(ctx context.Context, userID, classID string, req *CreateMarkRequest) (*models.Mark, error)
	UpdateMark(ctx context.Context, userID, markID string, req *UpdateMarkRequest) (*models.Mark, error)
	DeleteMark(ctx context.Context, userID, markID string) error

	RecordAbsence(ctx context.Context, userID, classID string, req *CreateAbsenceRequest) (*models.Absence, error)
	UpdateAbsence(ctx context.Context, userID, absenceID string, req *UpdateAbsenceRequest) (*models.Absence, error)
	DeleteAbsence(ctx context.Context, userID, absenceID string) error

	ExportGradebook(ctx context.Context, userID, classID string) (*GradebookExport, error)
}

// StudentService is the student's read-only view.
type StudentService interface {
	ListClasses(ctx context.Context, userID string) ([]*models.ClassResponse, error)
	ListSubjects(ctx context.Context, userID string) ([]*models.ClassSubjectResponse, error)
	ListMarks(ctx context.Context, userID string, subjectID *string) ([]*models.Mark, error)
	ListAbsences(ctx context.Context, userID string, subjectID *string) ([]*models.Absence, error)
}

type NotificationService interface {
	HandleMarkRecorded(ctx context.Context, event *events.Event) error
	HandleAbsenceRecorded(ctx context.Context, event *events.Event) error

	List(ctx context.Context, userID string, unreadOnly bool, page, size int) (*models.ListResponse[*models.Notification], error)
	MarkRead(ctx context.Context, userID, id string) error
	Delete(ctx context.Context, userID, id string) error
}

// ServiceManager owns the service instances
type ServiceManager interface {
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error

	Auth() AuthService
	Role() RoleService
	Profile() ProfileService
	Subject() SubjectService
	Class() ClassService
	Grade() GradeService
	Student() StudentService
	Notification() NotificationService
}
