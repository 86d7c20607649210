package services

import (
	"regexp"

	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
)

// RoleCodeClassification is the outcome of matching a role code.
type RoleCodeClassification struct {
	Role models.UserRole
	// StudentID is the whole code for student codes, empty otherwise.
	StudentID string
}

// RoleCodeClassifier maps role codes to roles. Matching order is fixed:
// teacher code, student pattern, admin code.
type RoleCodeClassifier struct {
	teacherCode    string
	adminCode      string
	studentPattern *regexp.Regexp
}

func NewRoleCodeClassifier(cfg config.RoleCodesConfig) *RoleCodeClassifier {
	return &RoleCodeClassifier{
		teacherCode:    cfg.TeacherCode,
		adminCode:      cfg.AdminCode,
		studentPattern: cfg.StudentCodePattern(),
	}
}

func (c *RoleCodeClassifier) Classify(code string) (RoleCodeClassification, error) {
	switch {
	case code == "":
		return RoleCodeClassification{}, ErrInvalidRoleCode
	case code == c.teacherCode:
		return RoleCodeClassification{Role: models.RoleTeacher}, nil
	case c.studentPattern.MatchString(code):
		return RoleCodeClassification{Role: models.RoleStudent, StudentID: code}, nil
	case code == c.adminCode:
		return RoleCodeClassification{Role: models.RoleAdmin}, nil
	}
	return RoleCodeClassification{}, ErrInvalidRoleCode
}
