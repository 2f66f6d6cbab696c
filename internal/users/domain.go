package users

import (
	"errors"
	"fmt"
	"time"
)

// User represents a user account for management.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrEmailTaken indicates the email already belongs to an account.
var ErrEmailTaken = errors.New("users: email already taken")

// ErrRoleAssignmentIncomplete marks accounts created without their role.
var ErrRoleAssignmentIncomplete = errors.New("users: role assignment incomplete")

// RoleAssignmentError reports an account that was created but whose role
// grant failed. It carries the account id so callers can compensate.
type RoleAssignmentError struct {
	UserID int64
	cause  error
}

func (e *RoleAssignmentError) Error() string {
	return fmt.Sprintf("users: role assignment incomplete for user %d: %v", e.UserID, e.cause)
}

func (e *RoleAssignmentError) Unwrap() []error {
	return []error{ErrRoleAssignmentIncomplete, e.cause}
}
