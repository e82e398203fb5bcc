// Package standings folds matchday results into a ranked leaderboard.
package standings

import (
	"github.com/okian/prode/internal/domain/model"
	"github.com/okian/prode/internal/domain/ranking"
	"github.com/okian/prode/internal/domain/scoring"
	"github.com/okian/prode/internal/domain/stats"

	"golang.org/x/text/language"
)

// Standing is one ranked leaderboard row.
type Standing struct {
	Name          string `json:"name"`
	Points        int    `json:"points"`
	ExactHits     int    `json:"exactHits"`
	PartialHits   int    `json:"partialHits"`
	Incorrects    int    `json:"incorrects"`
	PlayedMatches int    `json:"playedMatches"`
	GoalsErrorSum int    `json:"goalsErrorSum"`
	Rank          int    `json:"displayRank"`
	Prize         string `json:"prize,omitempty"`
}

// Option applies a configuration option to an accumulation run.
type Option func(*options)

type options struct {
	locale    language.Tag
	onOutcome func(scoring.Outcome)
}

// WithLocale sets the locale used for the name tie-break.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// WithOutcomeHook is called once per scored (match, player) pair.
func WithOutcomeHook(fn func(scoring.Outcome)) Option {
	return func(o *options) {
		if fn != nil {
			o.onOutcome = fn
		}
	}
}

// Accumulate scores every prediction of every concluded match and returns the
// roster ranked by criteria. A nil criteria list selects the default chain.
// Predictions are matched to players by position; a roster index without a
// prediction counts as Missing. It is a pure function of its inputs.
func Accumulate(matchdays []model.Matchday, roster []string, criteria []ranking.Criterion, opts ...Option) []Standing {
	o := options{locale: ranking.DefaultLocale, onOutcome: func(scoring.Outcome) {}}
	for _, opt := range opts {
		opt(&o)
	}

	engine := ranking.New(roster, criteria, ranking.WithLocale(o.locale))
	for _, md := range matchdays {
		for _, m := range md.Matches {
			if !m.Concluded() {
				continue
			}
			for i, player := range engine.Players() {
				p, _ := m.PredictionAt(i)
				outcome := scoring.ScoreMatch(m, p)
				player.Apply(outcome)
				player.ApplyGoalError(m.Score1, m.Score2, p.Score1, p.Score2)
				o.onOutcome(outcome)
			}
		}
	}

	sorted := engine.Sort()
	ranks := engine.Positions(sorted)
	out := make([]Standing, len(sorted))
	for i, p := range sorted {
		out[i] = toStanding(p, ranks[i])
	}
	return out
}

func toStanding(p *stats.Player, rank int) Standing {
	return Standing{
		Name:          p.Name,
		Points:        p.Points,
		ExactHits:     p.ExactHits,
		PartialHits:   p.PartialHits,
		Incorrects:    p.Incorrects,
		PlayedMatches: p.PlayedMatches,
		GoalsErrorSum: p.GoalsErrorSum,
		Rank:          rank,
	}
}
