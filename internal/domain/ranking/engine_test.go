package ranking_test

import (
	"math/rand"
	"testing"

	"github.com/okian/prode/internal/domain/ranking"
	"github.com/okian/prode/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"
)

func names(players []*stats.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func setPoints(e *ranking.Engine, points ...int) {
	for i, p := range points {
		e.Player(i).Points = p
	}
}

func TestEngineSort(t *testing.T) {
	Convey("Given an engine with the default chain", t, func() {
		e := ranking.New([]string{"Ulises", "Juany", "Toto", "Alejo"}, nil)

		Convey("Then players start zeroed in roster order", func() {
			So(names(e.Players()), ShouldResemble, []string{"Ulises", "Juany", "Toto", "Alejo"})
			So(e.Criteria(), ShouldResemble, ranking.DefaultCriteria())
			So(e.Player(4), ShouldBeNil)
			So(e.Player(-1), ShouldBeNil)
		})

		Convey("When points differ", func() {
			setPoints(e, 4, 10, 7, 1)
			sorted := e.Sort()

			Convey("Then points decide, descending", func() {
				So(names(sorted), ShouldResemble, []string{"Juany", "Toto", "Ulises", "Alejo"})
			})

			Convey("And the roster order is left untouched", func() {
				So(names(e.Players()), ShouldResemble, []string{"Ulises", "Juany", "Toto", "Alejo"})
			})
		})

		Convey("When points tie but exact hits differ", func() {
			setPoints(e, 6, 6, 6, 6)
			e.Player(0).ExactHits = 2
			e.Player(1).ExactHits = 0
			e.Player(2).ExactHits = 1
			e.Player(3).ExactHits = 1
			e.Player(2).Incorrects = 3
			e.Player(3).Incorrects = 1

			Convey("Then exact hits then fewer incorrects decide", func() {
				So(names(e.Sort()), ShouldResemble, []string{"Ulises", "Alejo", "Toto", "Juany"})
			})
		})

		Convey("When every criterion ties", func() {
			Convey("Then names decide ascending", func() {
				So(names(e.Sort()), ShouldResemble, []string{"Alejo", "Juany", "Toto", "Ulises"})
			})
		})
	})

	Convey("Given a month chain with goalsErrorSum", t, func() {
		criteria := []ranking.Criterion{
			ranking.ParseCriterion("points", "desc"),
			ranking.ParseCriterion("exactHits", "desc"),
			ranking.ParseCriterion("goalsErrorSum", "asc"),
			ranking.ParseCriterion("incorrects", "asc"),
		}
		e := ranking.New([]string{"Seba", "Mati", "Joaco"}, criteria)
		setPoints(e, 9, 9, 9)
		e.Player(0).GoalsErrorSum = 12
		e.Player(1).GoalsErrorSum = 8
		e.Player(2).GoalsErrorSum = 8
		e.Player(1).Incorrects = 2
		e.Player(2).Incorrects = 1

		So(names(e.Sort()), ShouldResemble, []string{"Joaco", "Mati", "Seba"})
	})

	Convey("Given an unknown tie-breaker key", t, func() {
		criteria := []ranking.Criterion{
			ranking.ParseCriterion("vibes", "desc"),
			ranking.ParseCriterion("points", "desc"),
		}
		e := ranking.New([]string{"B", "A", "C"}, criteria)
		setPoints(e, 1, 1, 5)

		Convey("Then it resolves to 0 for everyone and never decides", func() {
			So(names(e.Sort()), ShouldResemble, []string{"C", "A", "B"})
			So(e.Positions(e.Sort()), ShouldResemble, []int{1, 2, 2})
		})
	})

	Convey("Given an explicit empty chain", t, func() {
		e := ranking.New([]string{"b", "a"}, []ranking.Criterion{})
		setPoints(e, 10, 0)

		Convey("Then only names order the players and everyone ties", func() {
			sorted := e.Sort()
			So(names(sorted), ShouldResemble, []string{"a", "b"})
			So(e.Positions(sorted), ShouldResemble, []int{1, 1})
		})
	})

	Convey("Given accented names", t, func() {
		e := ranking.New([]string{"Nicolás", "Nicolas", "Ñandú", "Nube", "Zoe", "alejo"}, []ranking.Criterion{})

		Convey("Then collation orders them the Spanish way", func() {
			sorted := names(e.Sort())
			So(sorted[0], ShouldEqual, "alejo")
			So(sorted, ShouldResemble, []string{"alejo", "Nicolas", "Nicolás", "Nube", "Ñandú", "Zoe"})
		})
	})

	Convey("Given a different locale", t, func() {
		e := ranking.New([]string{"Ñandú", "Nube", "Oso"}, []ranking.Criterion{}, ranking.WithLocale(language.English))
		So(names(e.Sort())[2], ShouldEqual, "Oso")
	})

	Convey("Given a name criterion ranked descending", t, func() {
		e := ranking.New([]string{"A", "C", "B"}, []ranking.Criterion{ranking.ParseCriterion("nombre", "descendente")})
		sorted := e.Sort()
		So(names(sorted), ShouldResemble, []string{"C", "B", "A"})
		So(e.Positions(sorted), ShouldResemble, []int{1, 2, 3})
	})
}

func TestEngineDeterminism(t *testing.T) {
	Convey("Given the same players in shuffled roster orders", t, func() {
		roster := []string{"Juany", "Toto", "Ulises", "Nicolás", "Alejo", "Seba", "Mati", "Joaco", "Pelado"}
		points := map[string]int{"Juany": 10, "Toto": 10, "Ulises": 7, "Nicolás": 7, "Alejo": 7, "Seba": 3, "Mati": 3, "Joaco": 0, "Pelado": 0}
		exact := map[string]int{"Juany": 2, "Toto": 2, "Ulises": 1, "Nicolás": 2, "Alejo": 1}

		build := func(order []string) []string {
			e := ranking.New(order, nil)
			for _, p := range e.Players() {
				p.Points = points[p.Name]
				p.ExactHits = exact[p.Name]
			}
			return names(e.Sort())
		}

		want := build(roster)
		rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic shuffle

		Convey("Then every shuffle yields the same order", func() {
			for i := 0; i < 25; i++ {
				shuffled := append([]string(nil), roster...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				So(build(shuffled), ShouldResemble, want)
			}
			So(want, ShouldResemble, []string{"Juany", "Toto", "Nicolás", "Alejo", "Ulises", "Mati", "Seba", "Joaco", "Pelado"})
		})
	})
}

func TestEnginePositions(t *testing.T) {
	Convey("Given points 10, 10, 7", t, func() {
		e := ranking.New([]string{"A", "B", "C"}, []ranking.Criterion{ranking.ParseCriterion("points", "desc")})
		setPoints(e, 10, 10, 7)

		Convey("Then display ranks skip after the tie", func() {
			So(e.Positions(e.Sort()), ShouldResemble, []int{1, 1, 3})
		})
	})

	Convey("Given players tied on points but not on exact hits", t, func() {
		e := ranking.New([]string{"A", "B", "C", "D"}, nil)
		setPoints(e, 10, 10, 10, 2)
		e.Player(0).ExactHits = 3
		e.Player(1).ExactHits = 1
		e.Player(2).ExactHits = 1

		Convey("Then only full ties share a rank", func() {
			sorted := e.Sort()
			So(names(sorted), ShouldResemble, []string{"A", "B", "C", "D"})
			So(e.Positions(sorted), ShouldResemble, []int{1, 2, 2, 4})
		})
	})

	Convey("Given no players", t, func() {
		e := ranking.New(nil, nil)
		So(e.Sort(), ShouldBeEmpty)
		So(e.Positions(e.Sort()), ShouldBeEmpty)
	})
}

func TestParseCriterion(t *testing.T) {
	Convey("Given configured keys and orders", t, func() {
		cases := []struct {
			key, order string
			metric     ranking.Metric
			dir        ranking.Direction
		}{
			{"points", "desc", ranking.MetricPoints, ranking.Descending},
			{"Puntos", "DESC", ranking.MetricPoints, ranking.Descending},
			{"exact_hits", "descending", ranking.MetricExactHits, ranking.Descending},
			{"partialHits", "desc", ranking.MetricPartialHits, ranking.Descending},
			{"incorrects", "asc", ranking.MetricIncorrects, ranking.Ascending},
			{"goals-error-sum", "ascending", ranking.MetricGoalsErrorSum, ranking.Ascending},
			{"PJ", "", ranking.MetricPlayedMatches, ranking.Descending},
			{"name", "", ranking.MetricName, ranking.Ascending},
			{"typo", "sideways", ranking.MetricUnknown, ranking.Descending},
		}

		for _, tc := range cases {
			c := ranking.ParseCriterion(tc.key, tc.order)
			So(c.Metric, ShouldEqual, tc.metric)
			So(c.Direction, ShouldEqual, tc.dir)
			So(c.Key, ShouldEqual, tc.key)
		}
	})

	Convey("Given a mix of known and unknown keys", t, func() {
		criteria := []ranking.Criterion{
			ranking.ParseCriterion("points", "desc"),
			ranking.ParseCriterion("typo", "asc"),
		}
		So(ranking.UnknownKeys(criteria), ShouldResemble, []string{"typo"})
		So(criteria[0].Name(), ShouldEqual, "points")
		So(criteria[1].Name(), ShouldEqual, "typo")
		So(ranking.MetricGoalsErrorSum.String(), ShouldEqual, "goalsErrorSum")
		So(ranking.Ascending.String(), ShouldEqual, "asc")
		So(ranking.Descending.String(), ShouldEqual, "desc")
	})
}
