package attendance_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/anxo/convoca/internal/domain/attendance"
	"github.com/anxo/convoca/internal/domain/model"
)

func roster(ids ...string) []model.Person {
	out := make([]model.Person, len(ids))
	for i, id := range ids {
		out[i] = model.Person{ID: model.PersonID(id), Name: "Player " + id}
	}
	return out
}

func day(s string) model.Day { return model.MustDay(s) }

func dayPtr(s string) *model.Day {
	d := model.MustDay(s)
	return &d
}

func TestCountableDates(t *testing.T) {
	Convey("Given a calendar with mixed event kinds", t, func() {
		events := []model.Event{
			model.Training{ID: "t1", Date: day("2024-01-10")},
			model.Match{ID: "m1", Date: day("2024-01-13"), Opponent: "Arousa"},
			model.MatchResult{ID: "r1", Date: day("2024-01-15"), Opponent: "Arousa", Result: "2-1"},
			model.Injury{ID: "i1", Date: day("2024-01-10"), PersonID: "A", Reason: "sprain"},
			model.Personal{ID: "p1", Date: day("2024-01-11"), PersonIDs: []model.PersonID{"B"}, Reason: "trip"},
		}

		Convey("When reducing to countable dates", func() {
			days := attendance.CountableDates(events)

			Convey("Then only training, match, and matchResult anchors count", func() {
				So(days.Cardinality(), ShouldEqual, 3)
				So(days.Contains(day("2024-01-10")), ShouldBeTrue)
				So(days.Contains(day("2024-01-13")), ShouldBeTrue)
				So(days.Contains(day("2024-01-15")), ShouldBeTrue)
				So(days.Contains(day("2024-01-11")), ShouldBeFalse)
			})
		})

		Convey("When a second training lands on an already-countable date", func() {
			withDup := append(events, model.Training{ID: "t2", Date: day("2024-01-10")})
			days := attendance.CountableDates(withDup)

			Convey("Then the denominator does not change", func() {
				So(days.Cardinality(), ShouldEqual, 3)
			})
		})
	})
}

func TestCompute(t *testing.T) {
	Convey("Given a roster of two people", t, func() {
		squad := roster("A", "B")

		Convey("When the calendar is empty", func() {
			records := attendance.Compute(squad, nil)

			Convey("Then everyone is fully present by definition", func() {
				So(records, ShouldHaveLength, 2)
				So(records["A"], ShouldResemble, attendance.Record{Attended: 0, Total: 0, Percentage: 100})
				So(records["B"], ShouldResemble, attendance.Record{Attended: 0, Total: 0, Percentage: 100})
			})
		})

		Convey("When one training has no absences", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-01-10")},
			}
			records := attendance.Compute(squad, events)

			Convey("Then both attend 1 of 1", func() {
				So(records["A"], ShouldResemble, attendance.Record{Attended: 1, Total: 1, Percentage: 100})
				So(records["B"], ShouldResemble, attendance.Record{Attended: 1, Total: 1, Percentage: 100})
			})
		})

		Convey("When an injury window covers every countable date for A", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-01-10")},
				model.Training{ID: "t2", Date: day("2024-01-11")},
				model.Injury{ID: "i1", Date: day("2024-01-10"), End: dayPtr("2024-01-12"), PersonID: "A", Reason: "sprain"},
			}
			records := attendance.Compute(squad, events)

			Convey("Then A misses both and B attends both", func() {
				So(records["A"], ShouldResemble, attendance.Record{Attended: 0, Total: 2, Percentage: 0})
				So(records["B"], ShouldResemble, attendance.Record{Attended: 2, Total: 2, Percentage: 100})
			})
		})

		Convey("When a personal absence hits the only countable date for B", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-01-10")},
				model.Personal{ID: "p1", Date: day("2024-01-10"), PersonIDs: []model.PersonID{"B"}, Reason: "trip"},
			}
			records := attendance.Compute(squad, events)

			Convey("Then B misses it and A does not", func() {
				So(records["B"], ShouldResemble, attendance.Record{Attended: 0, Total: 1, Percentage: 0})
				So(records["A"], ShouldResemble, attendance.Record{Attended: 1, Total: 1, Percentage: 100})
			})
		})

		Convey("When a personal absence carries an end date", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-01-10")},
				model.Training{ID: "t2", Date: day("2024-01-11")},
				model.Personal{ID: "p1", Date: day("2024-01-10"), End: dayPtr("2024-01-12"), PersonIDs: []model.PersonID{"B"}, Reason: "trip"},
			}
			records := attendance.Compute(squad, events)

			Convey("Then only the anchor day counts as absent", func() {
				So(records["B"], ShouldResemble, attendance.Record{Attended: 1, Total: 2, Percentage: 50})
			})
		})

		Convey("When an injury window misses every countable date", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-01-10")},
				model.Injury{ID: "i1", Date: day("2024-02-01"), End: dayPtr("2024-02-20"), PersonID: "A", Reason: "sprain"},
			}
			records := attendance.Compute(squad, events)

			Convey("Then attendance stays at 100 percent", func() {
				So(records["A"], ShouldResemble, attendance.Record{Attended: 1, Total: 1, Percentage: 100})
			})
		})

		Convey("When events land on countable dates for many people", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-01-10")},
				model.Match{ID: "m1", Date: day("2024-01-13"), Opponent: "Velle"},
				model.Injury{ID: "i1", Date: day("2024-01-09"), End: dayPtr("2024-01-11"), PersonID: "A", Reason: "knock"},
				model.Personal{ID: "p1", Date: day("2024-01-13"), PersonIDs: []model.PersonID{"A", "B"}, Reason: "exams"},
			}
			records := attendance.Compute(squad, events)

			Convey("Then attended plus absent equals total for everyone", func() {
				countable := attendance.CountableDates(events)
				for _, p := range squad {
					absent := attendance.AbsentCountableDates(p.ID, events, countable).Cardinality()
					rec := records[p.ID]
					So(rec.Attended+absent, ShouldEqual, rec.Total)
					So(rec.Attended, ShouldBeGreaterThanOrEqualTo, 0)
				}
			})
		})
	})
}

func TestCallUpTally(t *testing.T) {
	Convey("Given a roster of two people", t, func() {
		squad := roster("A", "B")

		Convey("When two match results carry squad selections", func() {
			events := []model.Event{
				model.MatchResult{ID: "r1", Date: day("2024-02-01"), Opponent: "Arousa", Result: "1-0",
					Squad: &model.Squad{CalledUp: []model.PersonID{"A"}, NotCalledUp: []model.PersonID{"B"}}},
				model.MatchResult{ID: "r2", Date: day("2024-02-08"), Opponent: "Velle", Result: "2-2",
					Squad: &model.Squad{CalledUp: []model.PersonID{"A", "B"}}},
			}
			tallies := attendance.CallUpTally(squad, events)

			Convey("Then tallies accumulate across matches", func() {
				So(tallies["A"], ShouldResemble, attendance.Tally{CalledUp: 2, NotCalledUp: 0})
				So(tallies["B"], ShouldResemble, attendance.Tally{CalledUp: 1, NotCalledUp: 1})
			})
		})

		Convey("When a squad references ids no longer on the roster", func() {
			events := []model.Event{
				model.Match{ID: "m1", Date: day("2024-02-01"), Opponent: "Arousa",
					Squad: &model.Squad{CalledUp: []model.PersonID{"A", "ghost"}, NotCalledUp: []model.PersonID{"gone"}}},
			}
			tallies := attendance.CallUpTally(squad, events)

			Convey("Then unknown ids are ignored", func() {
				So(tallies, ShouldHaveLength, 2)
				So(tallies["A"], ShouldResemble, attendance.Tally{CalledUp: 1})
				So(tallies["B"], ShouldResemble, attendance.Tally{})
			})
		})

		Convey("When a match has no squad selection", func() {
			events := []model.Event{
				model.Match{ID: "m1", Date: day("2024-02-01"), Opponent: "Arousa"},
			}
			tallies := attendance.CallUpTally(squad, events)

			Convey("Then nothing is counted", func() {
				So(tallies["A"], ShouldResemble, attendance.Tally{})
				So(tallies["B"], ShouldResemble, attendance.Tally{})
			})
		})
	})
}

func TestResolveEligibility(t *testing.T) {
	Convey("Given a roster of three people", t, func() {
		squad := roster("A", "B", "C")
		matchDay := day("2024-03-16")

		Convey("When nobody has an absence on the match day", func() {
			events := []model.Event{
				model.Training{ID: "t1", Date: day("2024-03-12")},
			}
			out := attendance.ResolveEligibility(squad, events, matchDay)

			Convey("Then everyone is available", func() {
				for _, p := range squad {
					So(out[p.ID].Available, ShouldBeTrue)
					So(out[p.ID].Reason, ShouldBeEmpty)
				}
			})
		})

		Convey("When an injury window covers the match day", func() {
			events := []model.Event{
				model.Injury{ID: "i1", Date: day("2024-03-10"), End: dayPtr("2024-03-20"), PersonID: "A", Reason: "hamstring"},
			}
			out := attendance.ResolveEligibility(squad, events, matchDay)

			Convey("Then the person is unavailable with the injury reason", func() {
				So(out["A"], ShouldResemble, attendance.Eligibility{Available: false, Reason: "injury: hamstring"})
				So(out["B"].Available, ShouldBeTrue)
			})
		})

		Convey("When a personal absence falls on the match day", func() {
			events := []model.Event{
				model.Personal{ID: "p1", Date: matchDay, PersonIDs: []model.PersonID{"B"}, Reason: "trip"},
			}
			out := attendance.ResolveEligibility(squad, events, matchDay)

			Convey("Then the person carries the personal reason", func() {
				So(out["B"], ShouldResemble, attendance.Eligibility{Available: false, Reason: "personal: trip"})
			})
		})

		Convey("When an injury and a personal absence both apply to one person", func() {
			events := []model.Event{
				model.Personal{ID: "p1", Date: matchDay, PersonIDs: []model.PersonID{"A"}, Reason: "trip"},
				model.Injury{ID: "i1", Date: day("2024-03-15"), End: dayPtr("2024-03-18"), PersonID: "A", Reason: "hamstring"},
			}
			out := attendance.ResolveEligibility(squad, events, matchDay)

			Convey("Then the injury reason wins regardless of event order", func() {
				So(out["A"], ShouldResemble, attendance.Eligibility{Available: false, Reason: "injury: hamstring"})
			})
		})

		Convey("When an open-ended injury starts on the match day", func() {
			events := []model.Event{
				model.Injury{ID: "i1", Date: matchDay, PersonID: "C", Reason: "knock"},
			}
			out := attendance.ResolveEligibility(squad, events, matchDay)

			Convey("Then the anchor day alone is covered", func() {
				So(out["C"].Available, ShouldBeFalse)

				dayAfter := attendance.ResolveEligibility(squad, events, matchDay.Next())
				So(dayAfter["C"].Available, ShouldBeTrue)
			})
		})
	})
}
