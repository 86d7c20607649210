package models

import (
	"time"
)

type UserRole string

const (
	RolePending UserRole = "pending"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RolePending, RoleTeacher, RoleStudent, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusIncomplete      UserStatus = "incomplete"
	StatusAwaitingDetails UserStatus = "awaiting_details"
	StatusActive          UserStatus = "active"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case StatusIncomplete, StatusAwaitingDetails, StatusActive:
		return true
	}
	return false
}

// User is the identity record. Role and Status move together through the
// lifecycle: pending users are always incomplete and vice versa.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         UserRole   `json:"role" gorm:"not null;size:20;default:pending"`
	Status       UserStatus `json:"status" gorm:"not null;size:20;default:incomplete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// LifecycleConsistent reports whether role and status satisfy the pairing rule.
func (u *User) LifecycleConsistent() bool {
	return (u.Role == RolePending) == (u.Status == StatusIncomplete)
}
