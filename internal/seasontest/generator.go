package seasontest

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/anxo/convoca/internal/domain/model"
	"github.com/anxo/convoca/pkg/logger"
)

// Probability constants, out of 100.
const (
	injuryChance   = 8
	personalChance = 12
	probabilityMax = 100
)

// Injury span bounds in days.
const (
	injurySpanMin   = 3
	injurySpanRange = 18
)

// seasonStart anchors every simulated season. A fixed Monday keeps runs
// reproducible day-for-day even though the draws themselves are random.
var seasonStart = model.MustDay("2026-01-05")

var positions = []string{"GK", "DF", "MF", "FW"}

var opponents = []string{
	"Arousa", "Celanova", "Estradense", "Paiosaco",
	"Sarriana", "Velle", "Xuventude", "Barbadás",
}

var injuryReasons = []string{
	"hamstring strain", "ankle sprain", "knee knock", "muscle overload",
}

var personalReasons = []string{
	"work trip", "family matter", "exams", "illness at home",
}

// randIntn returns a random int in [0, n) using crypto/rand.
func randIntn(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func chance(percent int) bool {
	return randIntn(probabilityMax) < percent
}

// generateRoster creates a squad of the configured size.
func generateRoster(ctx context.Context, config *Config, stats *Stats) []model.Person {
	roster := make([]model.Person, config.SquadSize)
	for i := range roster {
		roster[i] = model.Person{
			ID:       model.PersonID("player-" + strconv.Itoa(i+1)),
			Name:     "Player " + strconv.Itoa(i+1),
			Position: positions[i%len(positions)],
			Jersey:   i + 1,
		}
	}
	stats.PeopleCreated = len(roster)
	logger.Get().Info(ctx, "generated roster", logger.Int("squadSize", len(roster)))
	return roster
}

// generateSeason builds a calendar of trainings, matches, results, and
// absences across the configured number of weeks. Weeks follow a fixed
// rhythm: training on Tuesday and Thursday, a match on Saturday, and the
// result of the previous week's match recorded on Monday.
func generateSeason(ctx context.Context, config *Config, roster []model.Person, stats *Stats) []model.Event {
	var events []model.Event
	ids := make([]model.PersonID, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}

	weekStart := seasonStart
	var lastMatch *model.Match
	for week := 0; week < config.Weeks; week++ {
		monday := weekStart
		tuesday := monday.Next()
		thursday := tuesday.Next().Next()
		saturday := thursday.Next().Next()

		if lastMatch != nil {
			events = append(events, model.MatchResult{
				ID:       uuid.NewString(),
				Date:     monday,
				Opponent: lastMatch.Opponent,
				Result:   strconv.Itoa(randIntn(5)) + "-" + strconv.Itoa(randIntn(4)),
				Scorers:  pickSome(ids, 3),
				Assists:  pickSome(ids, 2),
				Squad:    lastMatch.Squad,
			})
		}

		events = append(events,
			model.Training{
				ID:           uuid.NewString(),
				Date:         tuesday,
				Title:        "Week " + strconv.Itoa(week+1) + " session A",
				Participants: pickSome(ids, len(ids)-randIntn(4)),
			},
			model.Training{
				ID:           uuid.NewString(),
				Date:         thursday,
				Title:        "Week " + strconv.Itoa(week+1) + " session B",
				Participants: pickSome(ids, len(ids)-randIntn(4)),
			},
		)

		match := model.Match{
			ID:       uuid.NewString(),
			Date:     saturday,
			Opponent: opponents[week%len(opponents)],
			Venue:    pickVenue(week),
			Squad:    pickSquad(ids),
		}
		events = append(events, match)
		lastMatch = &match

		// Occasional absences spice up the availability reports.
		if chance(injuryChance) {
			end := addDays(tuesday, injurySpanMin+randIntn(injurySpanRange))
			events = append(events, model.Injury{
				ID:       uuid.NewString(),
				Date:     tuesday,
				End:      &end,
				PersonID: ids[randIntn(len(ids))],
				Reason:   injuryReasons[randIntn(len(injuryReasons))],
			})
		}
		if chance(personalChance) {
			events = append(events, model.Personal{
				ID:        uuid.NewString(),
				Date:      thursday,
				PersonIDs: pickSome(ids, 1+randIntn(2)),
				Reason:    personalReasons[randIntn(len(personalReasons))],
			})
		}

		weekStart = addDays(weekStart, 7)
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated season calendar",
		logger.Int("weeks", config.Weeks),
		logger.Int("events", len(events)))
	return events
}

// pickSome returns n distinct ids drawn from the pool, in pool order.
func pickSome(pool []model.PersonID, n int) []model.PersonID {
	if n <= 0 {
		return nil
	}
	if n >= len(pool) {
		out := make([]model.PersonID, len(pool))
		copy(out, pool)
		return out
	}
	perm := make([]int, len(pool))
	for i := range perm {
		perm[i] = i
	}
	for i := len(perm) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	picked := make(map[int]bool, n)
	for _, idx := range perm[:n] {
		picked[idx] = true
	}
	out := make([]model.PersonID, 0, n)
	for i, id := range pool {
		if picked[i] {
			out = append(out, id)
		}
	}
	return out
}

// pickSquad splits the pool into called-up and left-out halves.
func pickSquad(pool []model.PersonID) *model.Squad {
	calledUp := pickSome(pool, len(pool)-len(pool)/4)
	out := make([]model.PersonID, 0, len(pool)-len(calledUp))
	in := make(map[model.PersonID]bool, len(calledUp))
	for _, id := range calledUp {
		in[id] = true
	}
	for _, id := range pool {
		if !in[id] {
			out = append(out, id)
		}
	}
	return &model.Squad{CalledUp: calledUp, NotCalledUp: out}
}

func pickVenue(week int) string {
	if week%2 == 0 {
		return "home"
	}
	return "away"
}

func addDays(d model.Day, n int) model.Day {
	for i := 0; i < n; i++ {
		d = d.Next()
	}
	return d
}
