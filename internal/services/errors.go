package services

import (
	"errors"
	"fmt"
)

// Lifecycle errors
var (
	ErrInvalidRoleCode      = errors.New("invalid role code")
	ErrRoleAlreadyAssigned  = errors.New("role already assigned")
	ErrDuplicateStudentCode = errors.New("student code already in use")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// Resource errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrClassNotFound        = errors.New("class not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrMarkNotFound         = errors.New("mark not found")
	ErrAbsenceNotFound      = errors.New("absence not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrTeacherNotAssigned   = errors.New("teacher does not teach in this class")
	ErrSubjectMismatch      = errors.New("teacher is registered for a different subject")
	ErrStudentInOtherClass  = errors.New("student already belongs to another class")
	ErrConflict             = errors.New("resource already exists")
)

// PermissionError explains a refused action. It matches ErrNotAuthorized.
type PermissionError struct {
	UserID     string
	ResourceID string
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s: %s", e.UserID, e.Action, e.Resource, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrNotAuthorized
}

// storeError marks an unexpected persistence failure, keeping the cause.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
