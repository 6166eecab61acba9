// Package auth implements registration with email OTP verification and
// session based login.
package auth

import "time"

// OTPValidity is how long a registration code stays usable.
const OTPValidity = 10 * time.Minute

// ResendInterval throttles OTP emails per address.
const ResendInterval = time.Minute

// PendingRegistration holds a signup waiting for its OTP. The account only
// materialises in users once the code is verified.
type PendingRegistration struct {
	ID           int64
	Email        string
	Name         string
	StudentID    string
	PasswordHash string
	OTP          string
	CreatedAt    time.Time
}

// Expired reports whether the code can no longer be used.
func (p PendingRegistration) Expired(now time.Time) bool {
	return now.Sub(p.CreatedAt) > OTPValidity
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name" validate:"required,max=255"`
	StudentID string `json:"student_id" validate:"omitempty,max=50"`
	Password  string `json:"password" validate:"required,min=8"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
