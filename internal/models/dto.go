package models

import "time"

const TokenTypeBearer = "bearer"

// TokenResponse is returned whenever a session token is (re)issued.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

type ProfileCompletionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TokenResponse
}

type TeacherProfileResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	FatherName  *string `json:"father_name,omitempty"`
	GovNumber   *string `json:"gov_number,omitempty"`
	SubjectID   *string `json:"subject_id,omitempty"`
	SubjectName *string `json:"subject_name,omitempty"`
}

type StudentProfileResponse struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Email      string  `json:"email"`
	StudentID  string  `json:"student_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	FatherName *string `json:"father_name,omitempty"`
	GovNumber  *string `json:"gov_number,omitempty"`
	ClassID    *string `json:"class_id,omitempty"`
	ClassName  *string `json:"class_name,omitempty"`
}

type ClassResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type TeacherClassResponse struct {
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
}

// RosterEntry is one student of a class with the marks and absences the
// requesting teacher recorded in their subject.
type RosterEntry struct {
	StudentID string     `json:"student_id"`
	Code      string     `json:"student_code"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Marks     []*Mark    `json:"marks"`
	Absences  []*Absence `json:"absences"`
	Average   *float64   `json:"average,omitempty"`
}

type ClassRosterResponse struct {
	ClassID     string         `json:"class_id"`
	ClassName   string         `json:"class_name"`
	SubjectID   string         `json:"subject_id"`
	SubjectName string         `json:"subject_name"`
	Students    []*RosterEntry `json:"students"`
}

type ClassSubjectResponse struct {
	SubjectID   string  `json:"subject_id"`
	SubjectName string  `json:"subject_name"`
	TeacherID   *string `json:"teacher_id,omitempty"`
	TeacherName *string `json:"teacher_name,omitempty"`
}

type ListResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}
