// Package events serves the event calendar. Events publish immediately
// without approval but stay pinned to their committee year.
package events

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

var Policy = content.Policy{RequiresApproval: false, YearScoped: true}

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Time        string    `json:"time"`
	Location    string    `json:"location"`
	Venue       string    `json:"venue"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Link        string    `json:"link"`
	IsUpcoming  bool      `json:"is_upcoming"`
	Highlights  []string  `json:"highlights"`
	Links       []string  `json:"links"`
	Year        int       `json:"year"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Date        time.Time `json:"date" validate:"required"`
	Time        string    `json:"time" validate:"max=50"`
	Location    string    `json:"location" validate:"max=100"`
	Venue       string    `json:"venue" validate:"max=100"`
	Description string    `json:"description" validate:"required"`
	Image       string    `json:"image" validate:"max=500"`
	Tags        []string  `json:"tags"`
	Link        string    `json:"link" validate:"omitempty,url"`
	IsUpcoming  bool      `json:"is_upcoming"`
	Highlights  []string  `json:"highlights"`
	Links       []string  `json:"links"`
}

type ListFilter struct {
	Year     *int
	Upcoming *bool
}
