// Package pages manages the atomic permission units roles are granted.
package pages

import "time"

// Page is a named capability unit. The name is its identity and never
// changes; only the description is editable.
type Page struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatePageRequest is the create payload.
type CreatePageRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// UpdatePageRequest edits the description only.
type UpdatePageRequest struct {
	Description string `json:"description"`
}
