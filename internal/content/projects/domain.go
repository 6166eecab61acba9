// Package projects serves the club's project showcase. Entries are approval
// gated and pinned to the committee year they were created in.
package projects

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

// Policy for projects: approval gated, year scoped.
var Policy = content.Policy{RequiresApproval: true, YearScoped: true}

type Project struct {
	ID          int64                  `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	TechStack   []string               `json:"tech_stack"`
	Status      string                 `json:"status"`
	Team        []string               `json:"team"`
	Github      string                 `json:"github"`
	Demo        string                 `json:"demo"`
	Domain      string                 `json:"domain"`
	Image       string                 `json:"image"`
	StudentID   string                 `json:"student_id"`
	Year        int                    `json:"year"`
	Approval    content.ApprovalStatus `json:"approval_status"`
	CreatedBy   int64                  `json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

type UpsertRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	TechStack   []string `json:"tech_stack"`
	Status      string   `json:"status" validate:"required,oneof=Ongoing Completed"`
	Team        []string `json:"team"`
	Github      string   `json:"github" validate:"omitempty,url"`
	Demo        string   `json:"demo" validate:"omitempty,url"`
	Domain      string   `json:"domain" validate:"max=100"`
	Image       string   `json:"image" validate:"max=500"`
	StudentID   string   `json:"student_id" validate:"max=50"`
}

// ListFilter narrows list queries. Statuses empty means all states.
type ListFilter struct {
	Year     *int
	Statuses []content.ApprovalStatus
}
