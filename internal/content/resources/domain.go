// Package resources serves the curated learning resource library.
package resources

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

var Policy = content.Policy{RequiresApproval: true, YearScoped: true}

type Resource struct {
	ID          int64                  `json:"id"`
	Title       string                 `json:"title"`
	Category    string                 `json:"category"`
	Format      string                 `json:"format"`
	Difficulty  string                 `json:"difficulty"`
	Link        string                 `json:"link"`
	Restricted  bool                   `json:"restricted"`
	Description string                 `json:"description"`
	Year        int                    `json:"year"`
	Approval    content.ApprovalStatus `json:"approval_status"`
	CreatedBy   int64                  `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type UpsertRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Category    string `json:"category" validate:"required,max=100"`
	Format      string `json:"format" validate:"required,max=50"`
	Difficulty  string `json:"difficulty" validate:"max=50"`
	Link        string `json:"link" validate:"required,url"`
	Restricted  bool   `json:"restricted"`
	Description string `json:"description"`
}

type ListFilter struct {
	Year     *int
	Statuses []content.ApprovalStatus
}
