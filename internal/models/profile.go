package models

// RoleProfile is the per-role record a user owns once a role is assigned.
// Exactly one of Teacher, Student or Admin exists per user.
type RoleProfile interface {
	OwnerID() string
	ProfileRole() UserRole
}

type Teacher struct {
	ID         string  `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string  `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	FirstName  string  `json:"first_name" gorm:"size:100"`
	LastName   string  `json:"last_name" gorm:"size:100"`
	FatherName *string `json:"father_name,omitempty" gorm:"size:100"`
	GovNumber  *string `json:"gov_number,omitempty" gorm:"size:50"`
	SubjectID  *string `json:"subject_id,omitempty" gorm:"type:uuid"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Subject *Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

func (Teacher) TableName() string { return "teachers" }

func (t *Teacher) OwnerID() string       { return t.UserID }
func (t *Teacher) ProfileRole() UserRole { return RoleTeacher }

func (t *Teacher) FullName() string {
	return joinName(t.FirstName, t.LastName)
}

type Student struct {
	ID string `json:"id" gorm:"primaryKey;type:uuid"`
	// StudentID is the role code the student registered with. It never changes.
	StudentID  string  `json:"student_id" gorm:"uniqueIndex;not null;size:32"`
	UserID     string  `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	FirstName  string  `json:"first_name" gorm:"size:100"`
	LastName   string  `json:"last_name" gorm:"size:100"`
	FatherName *string `json:"father_name,omitempty" gorm:"size:100"`
	GovNumber  *string `json:"gov_number,omitempty" gorm:"size:50"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Student) TableName() string { return "students" }

func (s *Student) OwnerID() string       { return s.UserID }
func (s *Student) ProfileRole() UserRole { return RoleStudent }

func (s *Student) FullName() string {
	return joinName(s.FirstName, s.LastName)
}

type Admin struct {
	ID     string `json:"id" gorm:"primaryKey;type:uuid"`
	UserID string `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
}

func (Admin) TableName() string { return "admins" }

func (a *Admin) OwnerID() string       { return a.UserID }
func (a *Admin) ProfileRole() UserRole { return RoleAdmin }

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
