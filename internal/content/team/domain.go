// Package team serves the public committee directory for each year. The
// roster import feeds this table; manual edits go through the same API.
package team

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

var Policy = content.Policy{RequiresApproval: false, YearScoped: true}

type Member struct {
	ID          int64     `json:"id"`
	Designation string    `json:"designation"`
	Name        string    `json:"name"`
	StudentID   string    `json:"student_id"`
	Email       string    `json:"email"`
	ImageURL    string    `json:"image_url"`
	FacebookURL string    `json:"facebook_url"`
	LinkedInURL string    `json:"linkedin_url"`
	Quote       string    `json:"quote"`
	Year        int       `json:"year"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertRequest struct {
	Designation string `json:"designation" validate:"required,max=100"`
	Name        string `json:"name" validate:"required,max=255"`
	StudentID   string `json:"student_id" validate:"max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	ImageURL    string `json:"image_url" validate:"max=500"`
	FacebookURL string `json:"facebook_url" validate:"omitempty,url"`
	LinkedInURL string `json:"linkedin_url" validate:"omitempty,url"`
	Quote       string `json:"quote"`
}
