// internal/app/system/csvutil/roster.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/app/system/validate"
	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// ErrTooManyRows is returned when a file exceeds MaxRows data rows.
var ErrTooManyRows = errors.New("csv has too many rows")

// RosterRow is one normalized roster line.
type RosterRow struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// RowError describes a rejected line. Line is 1-based and counts the header.
type RowError struct {
	Line   int    `json:"line"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

// RosterResult holds the rows that passed and the lines that did not.
type RosterResult struct {
	Rows   []RosterRow `json:"rows"`
	Errors []RowError  `json:"errors,omitempty"`
}

// HasErrors reports whether any line was rejected.
func (r RosterResult) HasErrors() bool { return len(r.Errors) > 0 }

// ParseRoster reads "Nome,Email[,Cargo]" lines. A header row is detected
// and skipped, as is a UTF-8 BOM. A missing title becomes defaultRole.
// The file is only parsed; nothing is written.
func ParseRoster(r io.Reader, defaultRole string) (RosterResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	res := RosterResult{Rows: []RosterRow{}}
	seen := make(map[string]int)
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return RosterResult{}, err
		}
		if line == 1 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
			if isHeader(rec) {
				continue
			}
		}

		row := RosterRow{Role: defaultRole}
		if len(rec) > 0 {
			row.FullName = normalize.Name(rec[0])
		}
		if len(rec) > 1 {
			row.Email = normalize.Email(rec[1])
		}
		if len(rec) > 2 {
			if t := strings.TrimSpace(rec[2]); t != "" {
				row.Role = t
			}
		}
		if row.FullName == "" && row.Email == "" {
			continue
		}

		switch {
		case row.FullName == "":
			res.Errors = append(res.Errors, RowError{Line: line, Email: row.Email, Reason: "nome ausente"})
			continue
		case row.Email == "":
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "e-mail ausente"})
			continue
		case !validate.Var(row.Email, "email"):
			res.Errors = append(res.Errors, RowError{Line: line, Email: row.Email, Reason: "e-mail inválido"})
			continue
		}
		if first, dup := seen[row.Email]; dup {
			res.Errors = append(res.Errors, RowError{Line: line, Email: row.Email,
				Reason: "e-mail repetido (linha " + strconv.Itoa(first) + ")"})
			continue
		}
		seen[row.Email] = line

		res.Rows = append(res.Rows, row)
		if len(res.Rows) > MaxRows {
			return RosterResult{}, ErrTooManyRows
		}
	}
	return res, nil
}

// Members converts the rows to roster members with generated avatars.
func (r RosterResult) Members() []models.Member {
	out := make([]models.Member, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, models.Member{
			FullName: row.FullName,
			Email:    row.Email,
			Role:     row.Role,
			PhotoURL: models.AvatarURL(row.FullName),
		})
	}
	return out
}

func isHeader(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	second := strings.ToLower(strings.TrimSpace(rec[1]))
	return (first == "nome" || first == "name" || first == "full name" || first == "nome completo") &&
		(second == "email" || second == "e-mail")
}
