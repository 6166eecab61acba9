// Package users manages registered accounts. Roles are never stored on the
// user itself; the committee ledger owns the (user, role, year) relation.
package users

import "time"

// User represents a registered account.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	StudentID   string    `json:"student_id"`
	PhoneNumber string    `json:"phone_number"`
	Photo       string    `json:"photo"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	CreatedAt   time.Time `json:"date_joined"`
	UpdatedAt   time.Time `json:"-"`

	// PasswordHash never leaves the backend.
	PasswordHash string `json:"-"`
}

// UpsertParams creates or refreshes a user keyed by email, used by the
// roster import and the OTP verification flow.
type UpsertParams struct {
	Email        string
	Name         string
	PasswordHash string
	StudentID    string
	PhoneNumber  string
	Photo        string
	IsActive     bool
	IsStaff      bool
}

// UpdateProfileRequest edits mutable profile fields.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	StudentID   *string `json:"student_id,omitempty" validate:"omitempty,max=50"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=20"`
	Photo       *string `json:"photo,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsStaff     *bool   `json:"is_staff,omitempty"`
}
