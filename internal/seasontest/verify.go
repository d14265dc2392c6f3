package seasontest

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

// verifyResults recomputes the expected reports from the generated data and
// compares them against what the service returned.
func verifyResults(
	ctx context.Context,
	config *Config,
	roster []model.Person,
	events []model.Event,
	gotAttendance map[model.PersonID]attendance.Record,
	gotCallUps map[model.PersonID]attendance.Tally,
	stats *Stats,
) error {
	log.Println("🔍 Verifying results...")

	if len(gotAttendance) == 0 {
		return fmt.Errorf("no attendance records to verify")
	}

	wantAttendance := attendance.Compute(roster, events)
	wantCallUps := attendance.CallUpTally(roster, events)

	mismatches := 0
	for id, want := range wantAttendance {
		got, ok := gotAttendance[id]
		if !ok {
			log.Printf("⚠️  Missing attendance record for %s", id)
			mismatches++
			continue
		}
		if got.Attended != want.Attended || got.Total != want.Total ||
			math.Abs(got.Percentage-want.Percentage) > PercentageEpsilon {
			log.Printf("⚠️  Attendance mismatch for %s: got %d/%d (%.1f%%), want %d/%d (%.1f%%)",
				id, got.Attended, got.Total, got.Percentage,
				want.Attended, want.Total, want.Percentage)
			mismatches++
		}
	}

	for id, want := range wantCallUps {
		got, ok := gotCallUps[id]
		if !ok {
			log.Printf("⚠️  Missing call-up tally for %s", id)
			mismatches++
			continue
		}
		if got != want {
			log.Printf("⚠️  Call-up mismatch for %s: got %+v, want %+v", id, got, want)
			mismatches++
		}
	}

	stats.RecordsVerified = len(wantAttendance) + len(wantCallUps)
	stats.Mismatches = mismatches

	displayAttendanceTable(gotAttendance, config.Verbose)

	if mismatches > 0 {
		return fmt.Errorf("%d report mismatches", mismatches)
	}
	log.Println("✅ Result verification completed")
	return nil
}

// displayAttendanceTable shows the roster ordered by attendance percentage.
func displayAttendanceTable(records map[model.PersonID]attendance.Record, verbose bool) {
	type row struct {
		id model.PersonID
		r  attendance.Record
	}
	rows := make([]row, 0, len(records))
	for id, r := range records {
		rows = append(rows, row{id: id, r: r})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].r.Percentage != rows[j].r.Percentage {
			return rows[i].r.Percentage > rows[j].r.Percentage
		}
		return rows[i].id < rows[j].id
	})

	topN := 10
	if verbose || len(rows) < topN {
		topN = len(rows)
	}

	log.Printf("🏆 Attendance (top %d):", topN)
	for i := 0; i < topN; i++ {
		log.Printf("   %d. %s - %d/%d (%.1f%%)",
			i+1, rows[i].id, rows[i].r.Attended, rows[i].r.Total, rows[i].r.Percentage)
	}
}

// nextMatchDay finds the earliest match day in the calendar, if any.
func nextMatchDay(events []model.Event) (model.Day, bool) {
	var best model.Day
	found := false
	for _, e := range events {
		if e.EventKind() != model.KindMatch {
			continue
		}
		if !found || e.Anchor().Before(best) {
			best = e.Anchor()
			found = true
		}
	}
	return best, found
}
