package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for codec errors.
var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrUnknownKind  = errors.New("unknown event kind")
)

// Envelope is the single wire shape shared by all event kinds. Decoding picks
// the fields relevant to the kind and rejects the rest of the contract
// violations (bad dates, inverted ranges, missing per-kind fields) here, at
// the boundary, so the engine never has to re-validate.
type Envelope struct {
	ID           string     `json:"id"`
	Kind         Kind       `json:"kind"`
	Date         string     `json:"date"`
	EndDate      string     `json:"end_date,omitempty"`
	Title        string     `json:"title,omitempty"`
	Opponent     string     `json:"opponent,omitempty"`
	Venue        string     `json:"venue,omitempty"`
	Result       string     `json:"result,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	PersonID     PersonID   `json:"person_id,omitempty"`
	PersonIDs    []PersonID `json:"person_ids,omitempty"`
	Participants []PersonID `json:"participants,omitempty"`
	Scorers      []PersonID `json:"scorers,omitempty"`
	Assists      []PersonID `json:"assists,omitempty"`
	Squad        *Squad     `json:"squad,omitempty"`
}

// NewEnvelope renders an event back into its wire shape.
func NewEnvelope(e Event) Envelope {
	env := Envelope{ID: e.EventID(), Kind: e.EventKind(), Date: e.Anchor().String()}
	switch ev := e.(type) {
	case Training:
		env.Title = ev.Title
		env.Participants = ev.Participants
	case Match:
		env.Opponent = ev.Opponent
		env.Venue = ev.Venue
		env.Squad = ev.Squad
	case MatchResult:
		env.Opponent = ev.Opponent
		env.Result = ev.Result
		env.Scorers = ev.Scorers
		env.Assists = ev.Assists
		env.Squad = ev.Squad
	case Injury:
		if ev.End != nil {
			env.EndDate = ev.End.String()
		}
		env.PersonID = ev.PersonID
		env.Reason = ev.Reason
	case Personal:
		if ev.End != nil {
			env.EndDate = ev.End.String()
		}
		env.PersonIDs = ev.PersonIDs
		env.Reason = ev.Reason
	}
	return env
}

// Decode validates the envelope and builds the matching Event variant.
func (env Envelope) Decode() (Event, error) {
	if strings.TrimSpace(env.ID) == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidEvent)
	}
	if !env.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	date, err := ParseDay(env.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	var end *Day
	if env.EndDate != "" {
		e, err := ParseDay(env.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
		if e.Before(date) {
			return nil, fmt.Errorf("%w: end_date %s before date %s", ErrInvalidEvent, env.EndDate, env.Date)
		}
		end = &e
	}

	switch env.Kind {
	case KindTraining:
		return Training{ID: env.ID, Date: date, Title: env.Title, Participants: env.Participants}, nil
	case KindMatch:
		return Match{ID: env.ID, Date: date, Opponent: env.Opponent, Venue: env.Venue, Squad: env.Squad}, nil
	case KindMatchResult:
		return MatchResult{
			ID:       env.ID,
			Date:     date,
			Opponent: env.Opponent,
			Result:   env.Result,
			Scorers:  env.Scorers,
			Assists:  env.Assists,
			Squad:    env.Squad,
		}, nil
	case KindInjury:
		if env.PersonID == "" {
			return nil, fmt.Errorf("%w: injury requires person_id", ErrInvalidEvent)
		}
		if strings.TrimSpace(env.Reason) == "" {
			return nil, fmt.Errorf("%w: injury requires reason", ErrInvalidEvent)
		}
		return Injury{ID: env.ID, Date: date, End: end, PersonID: env.PersonID, Reason: env.Reason}, nil
	case KindPersonal:
		if len(env.PersonIDs) == 0 {
			return nil, fmt.Errorf("%w: personal absence requires person_ids", ErrInvalidEvent)
		}
		if strings.TrimSpace(env.Reason) == "" {
			return nil, fmt.Errorf("%w: personal absence requires reason", ErrInvalidEvent)
		}
		return Personal{ID: env.ID, Date: date, End: end, PersonIDs: env.PersonIDs, Reason: env.Reason}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
}

// DecodeEvent unmarshals a wire envelope and validates it into an Event.
func DecodeEvent(data []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return env.Decode()
}

// EncodeEvent marshals an event into its wire envelope.
func EncodeEvent(e Event) ([]byte, error) {
	data, err := json.Marshal(NewEnvelope(e))
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.EventID(), err)
	}
	return data, nil
}
