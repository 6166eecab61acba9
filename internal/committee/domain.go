// Package committee owns the yearly ledger tying users to roles, the
// handover that advances the current year, and the roster import.
package committee

import "time"

// Membership assigns exactly one role to a user for one year. The
// (user, year) pair is unique; re-assigning overwrites the role.
type Membership struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	RoleID    int64     `json:"role_id"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`

	// Joined for display and ordering.
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	RoleName    string `json:"role_name"`
	IsPresident bool   `json:"is_president"`
}

// RoleGrant is the resolved role and page set behind a membership.
type RoleGrant struct {
	RoleID      int64
	RoleName    string
	IsPresident bool
	Pages       []string
	Year        int
}

// AssignRequest upserts a membership.
type AssignRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	RoleID int64 `json:"role_id" validate:"required,gt=0"`
	Year   int   `json:"year" validate:"required,gte=1990"`
}

// HandoverRequest drives the yearly transition.
type HandoverRequest struct {
	NewYear        int   `json:"new_year" validate:"required,gte=1990"`
	NewPresidentID int64 `json:"new_president_id" validate:"required,gt=0"`
	ArchiveOld     bool  `json:"archive_old"`
}

// HandoverResult reports the completed transition.
type HandoverResult struct {
	Year           int    `json:"year"`
	PresidentEmail string `json:"president_email"`
	Archived       int    `json:"archived"`
}

// RosterRow is one line of the committee roster import. Designation, Name
// and Email are required; rows missing any of them are skipped silently.
type RosterRow struct {
	Designation string
	Name        string
	Email       string
	StudentID   string
	ImageURL    string
	FacebookURL string
	LinkedInURL string
	Quote       string
}

// ImportResult reports how many roster rows were processed. Skipped rows are
// not errors.
type ImportResult struct {
	Year      int `json:"year"`
	Processed int `json:"processed"`
}
