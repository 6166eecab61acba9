// Package stories serves alumni success stories shown on the landing pages.
package stories

import "time"

type Story struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Company   string    `json:"company"`
	Quote     string    `json:"quote"`
	ImageURL  string    `json:"image_url"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpsertRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Position string `json:"position" validate:"required,max=100"`
	Company  string `json:"company" validate:"required,max=100"`
	Quote    string `json:"quote" validate:"required"`
	ImageURL string `json:"image_url" validate:"max=500"`
}
