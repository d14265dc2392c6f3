// Package model contains domain models passed between layers.
package model

// PersonID uniquely identifies a roster member. IDs are stable opaque
// strings; calendar events may reference ids no longer on the roster.
type PersonID string

// Person is a roster member. The attendance engine only cares about identity;
// the profile fields exist for the surrounding application.
type Person struct {
	ID       PersonID `json:"id"`
	Name     string   `json:"name,omitempty"`
	Position string   `json:"position,omitempty"`
	Jersey   int      `json:"jersey,omitempty"`
}

// Kind discriminates calendar event variants.
type Kind string

// Calendar event kinds.
const (
	KindTraining    Kind = "training"
	KindMatch       Kind = "match"
	KindMatchResult Kind = "matchResult"
	KindInjury      Kind = "injury"
	KindPersonal    Kind = "personal"
)

// Countable reports whether events of this kind contribute to the attendance
// denominator.
func (k Kind) Countable() bool {
	return k == KindTraining || k == KindMatch || k == KindMatchResult
}

// Valid reports whether k is one of the five known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindTraining, KindMatch, KindMatchResult, KindInjury, KindPersonal:
		return true
	}
	return false
}

// Event is one dated calendar entry. Exactly five implementations exist, one
// per Kind; code that needs variant-specific fields type-switches on the
// concrete type instead of probing optional fields.
type Event interface {
	// EventID returns the unique id used for upserts and removals.
	EventID() string

	// EventKind returns the variant discriminator.
	EventKind() Kind

	// Anchor returns the event's anchor date. Range events (injury,
	// personal) expose their span through their own methods.
	Anchor() Day
}

// Squad is the called-up / not-called-up partition of the roster for one
// specific match.
type Squad struct {
	CalledUp    []PersonID `json:"called_up"`
	NotCalledUp []PersonID `json:"not_called_up"`
}

// Training is a scheduled training session.
type Training struct {
	ID           string
	Date         Day
	Title        string
	Participants []PersonID
}

// EventID implements Event.
func (e Training) EventID() string { return e.ID }

// EventKind implements Event.
func (e Training) EventKind() Kind { return KindTraining }

// Anchor implements Event.
func (e Training) Anchor() Day { return e.Date }

// Match is a scheduled fixture. Squad stays nil until selection happens.
type Match struct {
	ID       string
	Date     Day
	Opponent string
	Venue    string
	Squad    *Squad
}

// EventID implements Event.
func (e Match) EventID() string { return e.ID }

// EventKind implements Event.
func (e Match) EventKind() Kind { return KindMatch }

// Anchor implements Event.
func (e Match) Anchor() Day { return e.Date }

// MatchResult is a played, countable fixture.
type MatchResult struct {
	ID       string
	Date     Day
	Opponent string
	Result   string
	Scorers  []PersonID
	Assists  []PersonID
	Squad    *Squad
}

// EventID implements Event.
func (e MatchResult) EventID() string { return e.ID }

// EventKind implements Event.
func (e MatchResult) EventKind() Kind { return KindMatchResult }

// Anchor implements Event.
func (e MatchResult) Anchor() Day { return e.Date }

// Injury is a single-person absence spanning [Date, End] inclusive. A nil End
// means a one-day injury.
type Injury struct {
	ID       string
	Date     Day
	End      *Day
	PersonID PersonID
	Reason   string
}

// EventID implements Event.
func (e Injury) EventID() string { return e.ID }

// EventKind implements Event.
func (e Injury) EventKind() Kind { return KindInjury }

// Anchor implements Event.
func (e Injury) Anchor() Day { return e.Date }

// Span returns the inclusive [from, to] range of days the injury covers.
func (e Injury) Span() (from, to Day) {
	if e.End != nil {
		return e.Date, *e.End
	}
	return e.Date, e.Date
}

// Covers reports whether day falls inside the injury window.
func (e Injury) Covers(day Day) bool {
	from, to := e.Span()
	return !day.Before(from) && !day.After(to)
}

// Personal is a one-or-many-person personal absence. End, when set, is a
// calendar display range only; absence counting uses the anchor date alone.
type Personal struct {
	ID        string
	Date      Day
	End       *Day
	PersonIDs []PersonID
	Reason    string
}

// EventID implements Event.
func (e Personal) EventID() string { return e.ID }

// EventKind implements Event.
func (e Personal) EventKind() Kind { return KindPersonal }

// Anchor implements Event.
func (e Personal) Anchor() Day { return e.Date }

// Includes reports whether id is named by the absence.
func (e Personal) Includes(id PersonID) bool {
	for _, p := range e.PersonIDs {
		if p == id {
			return true
		}
	}
	return false
}

// EventSquad returns the squad of a match or matchResult event, or nil for
// every other kind and for matches without a selection yet.
func EventSquad(e Event) *Squad {
	switch ev := e.(type) {
	case Match:
		return ev.Squad
	case MatchResult:
		return ev.Squad
	}
	return nil
}
