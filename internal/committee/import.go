package committee

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cseku-cluster/cluster-backend/internal/shared"
)

// rosterHeaders maps lower-cased CSV column names to row fields.
var rosterHeaders = map[string]func(*RosterRow, string){
	"designation":  func(r *RosterRow, v string) { r.Designation = v },
	"name":         func(r *RosterRow, v string) { r.Name = v },
	"email":        func(r *RosterRow, v string) { r.Email = v },
	"student id":   func(r *RosterRow, v string) { r.StudentID = v },
	"image url":    func(r *RosterRow, v string) { r.ImageURL = v },
	"facebook url": func(r *RosterRow, v string) { r.FacebookURL = v },
	"linkedin url": func(r *RosterRow, v string) { r.LinkedInURL = v },
	"quote":        func(r *RosterRow, v string) { r.Quote = v },
}

// ParseRoster reads a committee roster CSV. Column order is free; headers are
// matched case-insensitively and unknown columns are ignored. The first row
// must be a header containing at least Designation, Name and Email.
func ParseRoster(r io.Reader) ([]RosterRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: roster file is empty", shared.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read roster header: %v", shared.ErrValidation, err)
	}

	setters := make(map[int]func(*RosterRow, string))
	seen := make(map[string]bool)
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if set, ok := rosterHeaders[name]; ok {
			setters[i] = set
			seen[name] = true
		}
	}
	for _, required := range []string{"designation", "name", "email"} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: roster is missing the %q column", shared.ErrValidation, required)
		}
	}

	var rows []RosterRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read roster row: %v", shared.ErrValidation, err)
		}
		var row RosterRow
		for i, value := range record {
			if set, ok := setters[i]; ok {
				set(&row, strings.TrimSpace(value))
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
