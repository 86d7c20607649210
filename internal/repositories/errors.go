package repositories

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// Unique constraint violations, resolved by constraint name
	ErrDuplicate        = errors.New("duplicate record")
	ErrEmailTaken       = errors.New("email already registered")
	ErrStudentCodeTaken = errors.New("student code already in use")
	ErrProfileExists    = errors.New("user already owns a role profile")
	ErrAlreadyInClass   = errors.New("student already assigned to a class")

	ErrForeignKey = errors.New("referenced record does not exist")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
