// Package posts serves general announcements on the public site. There is no
// approval queue; a post is visible the moment it is created. Writes are
// still year gated like every other committee-owned type.
package posts

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/cseku-cluster/cluster-backend/internal/content"
)

var Policy = content.Policy{RequiresApproval: false, YearScoped: true}

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Images    []string  `json:"images"`
	Videos    []string  `json:"videos"`
	Year      int       `json:"year"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertRequest never carries a slug; the slug is derived from the title on
// create and stays stable across edits so published links keep working.
type UpsertRequest struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Content string   `json:"content" validate:"required"`
	Images  []string `json:"images" validate:"dive,max=500"`
	Videos  []string `json:"videos" validate:"dive,max=500"`
}

type ListFilter struct {
	Year *int
}

// Slugify lowercases the title and collapses every run of characters that
// are not letters or digits into a single hyphen.
func Slugify(title string) string {
	title = strings.ToLower(norm.NFC.String(title))
	var b strings.Builder
	pending := false
	for _, r := range title {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte('-')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}
