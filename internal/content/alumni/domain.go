// Package alumni serves the alumni directory. Anyone can submit an entry;
// submissions sit pending until moderated. The handover archives outgoing
// committees here, already approved.
package alumni

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/content"
	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

var Policy = content.Policy{RequiresApproval: true, YearScoped: false}

type Alumnus struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"name"`
	Email       string                 `json:"email"`
	Batch       string                 `json:"batch"`
	Session     string                 `json:"session"`
	Designation string                 `json:"designation"`
	Company     string                 `json:"company"`
	Location    string                 `json:"location"`
	ImageURL    string                 `json:"image_url"`
	Year        int                    `json:"year"`
	Approval    content.ApprovalStatus `json:"approval_status"`
	CreatedBy   int64                  `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type UpsertRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"omitempty,email"`
	Batch       string `json:"batch" validate:"required,max=50"`
	Session     string `json:"session" validate:"max=50"`
	Designation string `json:"designation" validate:"max=100"`
	Company     string `json:"company" validate:"max=100"`
	Location    string `json:"location" validate:"max=100"`
	ImageURL    string `json:"image_url" validate:"max=500"`
}

type ListFilter struct {
	Year     *int
	Batch    string
	Statuses []content.ApprovalStatus
	Page     int
	PerPage  int
}

// Listing is the paginated directory response. The directory grows without
// bound, so it always pages.
type Listing struct {
	Data       []Alumnus         `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}
