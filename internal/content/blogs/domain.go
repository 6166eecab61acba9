// Package blogs serves member written articles. Approval gated and year
// scoped like projects; restricted entries are only meant for logged in
// members on the public site.
package blogs

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

var Policy = content.Policy{RequiresApproval: true, YearScoped: true}

type Blog struct {
	ID         int64                  `json:"id"`
	Title      string                 `json:"title"`
	Category   string                 `json:"category"`
	Tags       []string               `json:"tags"`
	Author     string                 `json:"author"`
	Date       time.Time              `json:"date"`
	Excerpt    string                 `json:"excerpt"`
	Image      string                 `json:"image"`
	Restricted bool                   `json:"restricted"`
	Year       int                    `json:"year"`
	Approval   content.ApprovalStatus `json:"approval_status"`
	CreatedBy  int64                  `json:"created_by"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

type UpsertRequest struct {
	Title      string    `json:"title" validate:"required,max=255"`
	Category   string    `json:"category" validate:"required,max=50"`
	Tags       []string  `json:"tags"`
	Author     string    `json:"author" validate:"required,max=100"`
	Date       time.Time `json:"date" validate:"required"`
	Excerpt    string    `json:"excerpt" validate:"required"`
	Image      string    `json:"image" validate:"max=500"`
	Restricted bool      `json:"restricted"`
}

type ListFilter struct {
	Year     *int
	Statuses []content.ApprovalStatus
}
