package model_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/anxo/convoca/internal/domain/model"
)

func TestEnvelopeDecode(t *testing.T) {
	Convey("Given wire envelopes", t, func() {
		Convey("When decoding a training event", func() {
			env := model.Envelope{
				ID:           "t1",
				Kind:         model.KindTraining,
				Date:         "2024-01-10",
				Title:        "Tuesday session",
				Participants: []model.PersonID{"A", "B"},
			}
			event, err := env.Decode()
			So(err, ShouldBeNil)
			So(event, ShouldResemble, model.Training{
				ID:           "t1",
				Date:         model.MustDay("2024-01-10"),
				Title:        "Tuesday session",
				Participants: []model.PersonID{"A", "B"},
			})
		})

		Convey("When decoding a match with a squad", func() {
			env := model.Envelope{
				ID:       "m1",
				Kind:     model.KindMatch,
				Date:     "2024-01-13",
				Opponent: "Arousa",
				Venue:    "home",
				Squad:    &model.Squad{CalledUp: []model.PersonID{"A"}, NotCalledUp: []model.PersonID{"B"}},
			}
			event, err := env.Decode()
			So(err, ShouldBeNil)
			match, ok := event.(model.Match)
			So(ok, ShouldBeTrue)
			So(match.Opponent, ShouldEqual, "Arousa")
			So(match.Squad.CalledUp, ShouldResemble, []model.PersonID{"A"})
		})

		Convey("When decoding an injury with an end date", func() {
			env := model.Envelope{
				ID:       "i1",
				Kind:     model.KindInjury,
				Date:     "2024-01-10",
				EndDate:  "2024-01-20",
				PersonID: "A",
				Reason:   "sprain",
			}
			event, err := env.Decode()
			So(err, ShouldBeNil)
			injury, ok := event.(model.Injury)
			So(ok, ShouldBeTrue)
			So(injury.End, ShouldNotBeNil)
			So(*injury.End, ShouldResemble, model.MustDay("2024-01-20"))
		})

		Convey("When the id is missing", func() {
			env := model.Envelope{Kind: model.KindTraining, Date: "2024-01-10"}
			_, err := env.Decode()
			So(err, ShouldWrap, model.ErrInvalidEvent)
		})

		Convey("When the kind is unknown", func() {
			env := model.Envelope{ID: "x1", Kind: "banquet", Date: "2024-01-10"}
			_, err := env.Decode()
			So(err, ShouldWrap, model.ErrUnknownKind)
		})

		Convey("When the date is malformed", func() {
			env := model.Envelope{ID: "t1", Kind: model.KindTraining, Date: "10/01/2024"}
			_, err := env.Decode()
			So(err, ShouldWrap, model.ErrInvalidEvent)
		})

		Convey("When the end date precedes the start date", func() {
			env := model.Envelope{
				ID:       "i1",
				Kind:     model.KindInjury,
				Date:     "2024-01-20",
				EndDate:  "2024-01-10",
				PersonID: "A",
				Reason:   "sprain",
			}
			_, err := env.Decode()
			So(err, ShouldWrap, model.ErrInvalidEvent)
		})

		Convey("When an injury has no person", func() {
			env := model.Envelope{ID: "i1", Kind: model.KindInjury, Date: "2024-01-10", Reason: "sprain"}
			_, err := env.Decode()
			So(err, ShouldWrap, model.ErrInvalidEvent)
		})

		Convey("When a personal absence has nobody attached", func() {
			env := model.Envelope{ID: "p1", Kind: model.KindPersonal, Date: "2024-01-10", Reason: "trip"}
			_, err := env.Decode()
			So(err, ShouldWrap, model.ErrInvalidEvent)
		})
	})
}

func TestEventRoundTrip(t *testing.T) {
	Convey("Given each event kind", t, func() {
		end := model.MustDay("2024-01-20")
		events := []model.Event{
			model.Training{ID: "t1", Date: model.MustDay("2024-01-10"), Title: "session", Participants: []model.PersonID{"A"}},
			model.Match{ID: "m1", Date: model.MustDay("2024-01-13"), Opponent: "Velle", Venue: "away",
				Squad: &model.Squad{CalledUp: []model.PersonID{"A"}, NotCalledUp: []model.PersonID{"B"}}},
			model.MatchResult{ID: "r1", Date: model.MustDay("2024-01-15"), Opponent: "Velle", Result: "3-1",
				Scorers: []model.PersonID{"A"}, Assists: []model.PersonID{"B"}},
			model.Injury{ID: "i1", Date: model.MustDay("2024-01-10"), End: &end, PersonID: "A", Reason: "sprain"},
			model.Personal{ID: "p1", Date: model.MustDay("2024-01-11"), PersonIDs: []model.PersonID{"B"}, Reason: "trip"},
		}

		Convey("When encoding and decoding through the wire envelope", func() {
			for _, original := range events {
				data, err := model.EncodeEvent(original)
				So(err, ShouldBeNil)

				decoded, err := model.DecodeEvent(data)
				So(err, ShouldBeNil)
				So(decoded, ShouldResemble, original)
			}
		})
	})
}

func TestEventSquad(t *testing.T) {
	Convey("Given events with and without squads", t, func() {
		squad := &model.Squad{CalledUp: []model.PersonID{"A"}}

		Convey("Then matches and match results expose their squad", func() {
			So(model.EventSquad(model.Match{ID: "m1", Squad: squad}), ShouldEqual, squad)
			So(model.EventSquad(model.MatchResult{ID: "r1", Squad: squad}), ShouldEqual, squad)
		})

		Convey("Then other kinds have none", func() {
			So(model.EventSquad(model.Training{ID: "t1"}), ShouldBeNil)
			So(model.EventSquad(model.Injury{ID: "i1"}), ShouldBeNil)
		})
	})
}
