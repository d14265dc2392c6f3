// Package attendance derives attendance, call-up, and availability figures
// from a roster and calendar snapshot.
//
// Every function here is pure and stateless: the same roster and event slice
// always produce the same result, inputs are never mutated, and concurrent
// calls on a shared snapshot are safe. All date handling is calendar-day
// based; the caller is responsible for having validated dates at ingestion.
package attendance

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/anxo/convoca/internal/domain/model"
)

// fullPercentage is the attendance figure for a person with no countable
// activities: no data is not a penalty.
const fullPercentage = 100.0

// Record is one person's attendance standing across the season.
type Record struct {
	Attended   int     `json:"attended"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// Tally counts match squad decisions for one person across history.
type Tally struct {
	CalledUp    int `json:"called_up"`
	NotCalledUp int `json:"not_called_up"`
}

// Eligibility classifies a person's fundamental availability for one match
// day, independent of squad selections already made.
type Eligibility struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CountableDates reduces the calendar to the set of distinct days that count
// toward attendance denominators. Only training, match, and matchResult
// events count, only by their anchor date, and a day counts once no matter
// how many of them land on it.
func CountableDates(events []model.Event) mapset.Set[model.Day] {
	days := mapset.NewThreadUnsafeSet[model.Day]()
	for _, e := range events {
		if e.EventKind().Countable() {
			days.Add(e.Anchor())
		}
	}
	return days
}

// AbsentCountableDates returns the countable days id was absent for. Injury
// windows expand day by day and intersect with the countable set; personal
// absences contribute their anchor day only, even when an end date is
// present (that range is calendar display, not absence).
func AbsentCountableDates(id model.PersonID, events []model.Event, countable mapset.Set[model.Day]) mapset.Set[model.Day] {
	absent := mapset.NewThreadUnsafeSet[model.Day]()
	for _, e := range events {
		switch ev := e.(type) {
		case model.Injury:
			if ev.PersonID != id {
				continue
			}
			from, to := ev.Span()
			for day := from; !day.After(to); day = day.Next() {
				if countable.Contains(day) {
					absent.Add(day)
				}
			}
		case model.Personal:
			if ev.Includes(id) && countable.Contains(ev.Date) {
				absent.Add(ev.Date)
			}
		}
	}
	return absent
}

// Compute produces one Record per roster member. Every roster id appears in
// the result; with zero countable activities a person is fully present by
// definition.
func Compute(roster []model.Person, events []model.Event) map[model.PersonID]Record {
	countable := CountableDates(events)
	total := countable.Cardinality()

	out := make(map[model.PersonID]Record, len(roster))
	for _, p := range roster {
		absent := AbsentCountableDates(p.ID, events, countable).Cardinality()
		attended := 0
		if total > 0 {
			attended = total - absent
			if attended < 0 {
				// Absence days are a subset of countable days, so this
				// cannot happen with well-formed data; clamp rather than
				// ever report a negative count.
				attended = 0
			}
		}
		pct := fullPercentage
		if total > 0 {
			pct = float64(attended) / float64(total) * 100
		}
		out[p.ID] = Record{Attended: attended, Total: total, Percentage: pct}
	}
	return out
}

// CallUpTally counts how often each roster member was called up or left out
// of match squads. Squad ids that are not on the roster are ignored: history
// routinely outlives roster edits. Matches without a selection contribute
// nothing.
func CallUpTally(roster []model.Person, events []model.Event) map[model.PersonID]Tally {
	out := make(map[model.PersonID]Tally, len(roster))
	for _, p := range roster {
		out[p.ID] = Tally{}
	}
	for _, e := range events {
		squad := model.EventSquad(e)
		if squad == nil {
			continue
		}
		for _, id := range squad.CalledUp {
			if t, ok := out[id]; ok {
				t.CalledUp++
				out[id] = t
			}
		}
		for _, id := range squad.NotCalledUp {
			if t, ok := out[id]; ok {
				t.NotCalledUp++
				out[id] = t
			}
		}
	}
	return out
}

// ResolveEligibility partitions the roster into available and
// unavailable-with-reason for one target match day. Injuries are scanned
// before personal absences, so when both cover the same person and day the
// injury reason wins; within a pass the first matching event in calendar
// order wins.
func ResolveEligibility(roster []model.Person, events []model.Event, matchDay model.Day) map[model.PersonID]Eligibility {
	out := make(map[model.PersonID]Eligibility, len(roster))
	for _, p := range roster {
		out[p.ID] = Eligibility{Available: true}
	}
	mark := func(id model.PersonID, reason string) {
		if cur, ok := out[id]; ok && cur.Available {
			out[id] = Eligibility{Available: false, Reason: reason}
		}
	}
	for _, e := range events {
		if ev, ok := e.(model.Injury); ok && ev.Covers(matchDay) {
			mark(ev.PersonID, "injury: "+ev.Reason)
		}
	}
	for _, e := range events {
		if ev, ok := e.(model.Personal); ok && ev.Date == matchDay {
			for _, id := range ev.PersonIDs {
				mark(id, "personal: "+ev.Reason)
			}
		}
	}
	return out
}
