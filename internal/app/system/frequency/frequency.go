// Package frequency turns raw presence records into a person's attendance
// summary. Nothing here is persisted; the summary is recomputed from the
// live attendance and schedule snapshots whenever either changes.
package frequency

import (
	"math"
	"sort"

	"github.com/dalemusser/leaguehub/internal/app/system/normalize"
	"github.com/dalemusser/leaguehub/internal/domain/models"
)

// Threshold is the minimum percentage before a summary is flagged.
const Threshold = 75

// Summary is one person's attendance picture.
type Summary struct {
	OfficialEvents int                 `json:"official_events"`
	AppRecorded    int                 `json:"app_recorded"`
	External       int                 `json:"external"`
	Total          int                 `json:"total"`
	Percentage     int                 `json:"percentage"`
	BelowThreshold bool                `json:"below_threshold"`
	History        []models.Attendance `json:"history"`
}

// Compute filters rows to email (case-insensitive) and derives the summary.
// Only app-recorded rows count toward the percentage; external rows are
// listed and counted separately. History is newest first.
func Compute(rows []models.Attendance, officialEvents int, email string) Summary {
	key := normalize.Email(email)
	s := Summary{OfficialEvents: officialEvents, History: []models.Attendance{}}

	for _, a := range rows {
		if key == "" || normalize.Email(a.EmailAluno) != key {
			continue
		}
		s.History = append(s.History, a)
		if a.IsExternal {
			s.External++
		} else {
			s.AppRecorded++
		}
	}
	s.Total = len(s.History)
	s.Percentage = Percentage(s.AppRecorded, officialEvents)
	s.BelowThreshold = s.Percentage < Threshold

	sort.SliceStable(s.History, func(i, j int) bool {
		return s.History[i].Timestamp.Time().After(s.History[j].Timestamp.Time())
	})
	return s
}

// Percentage is round(100*attended/official), or 0 with no official events.
// It is not clamped: attendance recorded against events later removed from
// the schedule can push it past 100.
func Percentage(attended, official int) int {
	if official <= 0 {
		return 0
	}
	return int(math.Round(float64(attended) / float64(official) * 100))
}
