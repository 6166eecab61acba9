// Package roles is the registry of committee roles and the pages they grant.
package roles

import (
	"time"

	"github.com/cseku-cluster/cluster-backend/internal/pages"
)

// Role represents a named committee role. At most one role carries the
// president flag at any time.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	IsPresident bool         `json:"is_president"`
	Pages       []pages.Page `json:"pages"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// UpsertRoleRequest creates or updates a role by name.
type UpsertRoleRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	IsPresident bool    `json:"is_president"`
	PageIDs     []int64 `json:"page_ids" validate:"dive,gt=0"`
}
