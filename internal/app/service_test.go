package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/prode/internal/adapters/cache"
	"github.com/okian/prode/internal/adapters/matchdays"
	service "github.com/okian/prode/internal/app"
	"github.com/okian/prode/internal/config"
	"github.com/okian/prode/internal/domain/model"
	"github.com/okian/prode/internal/domain/scoring"
	"github.com/okian/prode/internal/domain/standings"
	"github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	docs  map[string]matchdays.Document
	err   error
	loads int
}

func (f *fakeSource) Load(_ context.Context, name string) (matchdays.Document, error) {
	f.loads++
	if f.err != nil {
		return matchdays.Document{}, f.err
	}
	doc, ok := f.docs[name]
	if !ok {
		return matchdays.Document{}, matchdays.ErrNotFound
	}
	return doc, nil
}

func g(n int) model.Goals { return model.GoalsOf(n) }

func prediction(name string, s1, s2 model.Goals) model.Prediction {
	return model.Prediction{Name: name, Score1: s1, Score2: s2}
}

func fixture() *fakeSource {
	return &fakeSource{docs: map[string]matchdays.Document{
		"m1.json": {Checksum: "c1", Matchdays: []model.Matchday{{
			Name: "Fecha 1",
			Matches: []model.Match{{
				Team1: "Boca", Team2: "River", Score1: g(1), Score2: g(0),
				Predictions: []model.Prediction{
					prediction("Juany", g(1), g(0)),
					prediction("Toto", g(2), g(1)),
					prediction("Ulises", g(0), g(0)),
				},
			}},
		}}},
		"m2.json": {Checksum: "c2", Matchdays: []model.Matchday{}},
	}}
}

func months() map[string]config.Month {
	return map[string]config.Month{
		"month1": {
			Label:    "Marzo",
			DataFile: "m1.json",
			Roster:   []string{"Juany", "Toto", "Ulises"},
			Prizes:   []config.Prize{{Text: "Campeón", Positions: []int{1}}},
		},
		"month2": {
			Label:       "Abril",
			DataFile:    "m2.json",
			Roster:      []string{"Juany"},
			TieBreakers: []config.TieBreaker{{Key: "points", Order: "desc"}, {Key: "vibes", Order: "asc"}},
		},
		"broken": {DataFile: "missing.json"},
	}
}

func TestServiceStandings(t *testing.T) {
	convey.Convey("Given a service over two months", t, func() {
		ctx := context.Background()
		src := fixture()
		now := time.Date(2023, 4, 2, 21, 0, 0, 0, time.UTC)
		ids := 0
		shared := cache.NewMemory()
		svc := service.New(
			service.WithSource(src),
			service.WithMonths(months()),
			service.WithCurrentMonth("month1"),
			service.WithCache(shared, time.Minute),
			service.WithClock(func() time.Time { return now }),
			service.WithRunIDs(func() string { ids++; return "run-" + strconv.Itoa(ids) }),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)

		convey.Convey("When requesting the current month", func() {
			lb, err := svc.Standings(ctx, "")

			convey.Convey("Then the month is scored, ranked and awarded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(lb.Month, convey.ShouldEqual, "month1")
				convey.So(lb.Label, convey.ShouldEqual, "Marzo")
				convey.So(lb.RunID, convey.ShouldEqual, "run-1")
				convey.So(lb.GeneratedAt, convey.ShouldEqual, now)
				convey.So(lb.TieBreakers, convey.ShouldResemble, []string{"points desc", "exactHits desc", "incorrects asc"})

				want := []standings.Standing{
					{Name: "Juany", Points: 3, ExactHits: 1, PlayedMatches: 1, Rank: 1, Prize: "Campeón"},
					{Name: "Toto", Points: 1, PartialHits: 1, PlayedMatches: 1, GoalsErrorSum: 2, Rank: 2},
					{Name: "Ulises", Incorrects: 1, PlayedMatches: 1, GoalsErrorSum: 1, Rank: 3},
				}
				convey.So(cmp.Diff(want, lb.Standings), convey.ShouldBeEmpty)
			})

			convey.Convey("And a second request is served from cache", func() {
				again, err := svc.Standings(ctx, "month1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(again.RunID, convey.ShouldEqual, "run-1")
				convey.So(cmp.Diff(lb.Standings, again.Standings), convey.ShouldBeEmpty)
			})

			convey.Convey("And changed data invalidates the cached result", func() {
				doc := src.docs["m1.json"]
				doc.Checksum = "c1-edited"
				src.docs["m1.json"] = doc

				again, err := svc.Standings(ctx, "month1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(again.RunID, convey.ShouldEqual, "run-2")
			})
		})

		convey.Convey("When a month is refreshed ahead of a request", func() {
			convey.So(svc.Refresh(ctx, "month1"), convey.ShouldBeNil)
			lb, err := svc.Standings(ctx, "month1")

			convey.Convey("Then the request reuses the refreshed leaderboard", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(lb.RunID, convey.ShouldEqual, "run-1")
				convey.So(svc.MonthIDs(), convey.ShouldResemble, []string{"broken", "month1", "month2"})
				convey.So(errors.Is(svc.Refresh(ctx, "broken"), service.ErrLoadMatchdays), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the month is relabelled over a shared cache", func() {
			_, err := svc.Standings(ctx, "month1")
			convey.So(err, convey.ShouldBeNil)

			relabelled := months()
			m := relabelled["month1"]
			m.Label = "Marzo 2023"
			relabelled["month1"] = m
			restarted := service.New(
				service.WithSource(src),
				service.WithMonths(relabelled),
				service.WithCurrentMonth("month1"),
				service.WithCache(shared, time.Minute),
				service.WithRunIDs(func() string { return "restart-1" }),
			)

			lb, err := restarted.Standings(ctx, "month1")

			convey.Convey("Then the cached leaderboard is not reused", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(lb.RunID, convey.ShouldEqual, "restart-1")
				convey.So(lb.Label, convey.ShouldEqual, "Marzo 2023")
			})
		})

		convey.Convey("When the month has a custom chain with an unknown key", func() {
			lb, err := svc.Standings(ctx, "month2")

			convey.Convey("Then the chain is reported and the roster ranked at zero", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(lb.TieBreakers, convey.ShouldResemble, []string{"points desc", "vibes asc"})
				convey.So(lb.Standings, convey.ShouldHaveLength, 1)
				convey.So(lb.Standings[0].Rank, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the month is unknown", func() {
			_, err := svc.Standings(ctx, "month9")
			convey.So(errors.Is(err, service.ErrMonthNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When the data file cannot be loaded", func() {
			_, err := svc.Standings(ctx, "broken")

			convey.Convey("Then the load error wraps both kinds", func() {
				convey.So(errors.Is(err, service.ErrLoadMatchdays), convey.ShouldBeTrue)
				convey.So(errors.Is(err, matchdays.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a service without months", t, func() {
		svc := service.New()

		convey.Convey("Then the current month cannot be resolved", func() {
			_, err := svc.Standings(context.Background(), "")
			convey.So(errors.Is(err, service.ErrMonthNotFound), convey.ShouldBeTrue)
			convey.So(svc.Months(context.Background()), convey.ShouldBeEmpty)
		})
	})
}

func TestServiceMonthsAndMatchdays(t *testing.T) {
	convey.Convey("Given a configured service", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithSource(fixture()),
			service.WithMonths(months()),
			service.WithCurrentMonth("month1"),
		)

		convey.Convey("When listing months", func() {
			list := svc.Months(ctx)

			convey.Convey("Then they are sorted by id and the current one is flagged", func() {
				convey.So(list, convey.ShouldHaveLength, 3)
				convey.So(list[0].ID, convey.ShouldEqual, "broken")
				convey.So(list[1].ID, convey.ShouldEqual, "month1")
				convey.So(list[1].Current, convey.ShouldBeTrue)
				convey.So(list[1].Players, convey.ShouldEqual, 3)
				convey.So(list[2].Current, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When requesting scored matchdays", func() {
			sm, err := svc.Matchdays(ctx, "month1")

			convey.Convey("Then each prediction carries its outcome", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sm.CurrentMatchday, convey.ShouldEqual, 0)
				preds := sm.Matchdays[0].Matches[0].Predictions
				convey.So(preds[0].Outcome, convey.ShouldEqual, scoring.Exact)
				convey.So(preds[1].Outcome, convey.ShouldEqual, scoring.Partial)
				convey.So(preds[2].Outcome, convey.ShouldEqual, scoring.Incorrect)
			})
		})

		convey.Convey("When the month is empty", func() {
			sm, err := svc.Matchdays(ctx, "month2")
			convey.So(err, convey.ShouldBeNil)
			convey.So(sm.CurrentMatchday, convey.ShouldEqual, -1)
			convey.So(sm.Matchdays, convey.ShouldBeEmpty)
		})

		convey.Convey("When the month is unknown", func() {
			_, err := svc.Matchdays(ctx, "nope")
			convey.So(errors.Is(err, service.ErrMonthNotFound), convey.ShouldBeTrue)
		})
	})
}
