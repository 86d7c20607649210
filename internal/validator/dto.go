package validator

// DateLayout is the wire format of calendar dates in requests
const DateLayout = "2006-01-02"

// ===== AUTH =====

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ===== LIFECYCLE =====

type AssignRoleRequest struct {
	Code string `json:"code" validate:"required,role_code"`
}

type TeacherDetailsRequest struct {
	FirstName  string  `json:"first_name" validate:"required,person_name"`
	LastName   string  `json:"last_name" validate:"required,person_name"`
	FatherName *string `json:"father_name" validate:"omitempty,person_name"`
	GovNumber  *string `json:"gov_number" validate:"omitempty,alphanum,max=50"`
	SubjectID  string  `json:"subject_id" validate:"required,uuid"`
}

type StudentDetailsRequest struct {
	FirstName  string  `json:"first_name" validate:"required,person_name"`
	LastName   string  `json:"last_name" validate:"required,person_name"`
	FatherName *string `json:"father_name" validate:"omitempty,person_name"`
	GovNumber  *string `json:"gov_number" validate:"omitempty,alphanum,max=50"`
}

// ===== ADMINISTRATION =====

type CreateClassRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type AddStudentsRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,max=200,dive,uuid"`
}

type AssignClassSubjectRequest struct {
	SubjectID string  `json:"subject_id" validate:"required,uuid"`
	TeacherID *string `json:"teacher_id" validate:"omitempty,uuid"`
}

// ===== GRADEBOOK =====

type CreateMarkRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	Value       float64 `json:"value" validate:"grade_value"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateMarkRequest struct {
	Value       *float64 `json:"value" validate:"omitempty,grade_value"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type CreateAbsenceRequest struct {
	StudentID   string  `json:"student_id" validate:"required,uuid"`
	IsMotivated bool    `json:"is_motivated"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateAbsenceRequest struct {
	IsMotivated *bool   `json:"is_motivated"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
