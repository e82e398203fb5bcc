package standings

import (
	"github.com/okian/prode/internal/domain/model"
	"github.com/okian/prode/internal/domain/scoring"
)

// ScoredPrediction is a prediction with its classification.
type ScoredPrediction struct {
	Name    string          `json:"name"`
	Score1  model.Goals     `json:"scoreTeam1"`
	Score2  model.Goals     `json:"scoreTeam2"`
	Outcome scoring.Outcome `json:"outcome"`
	Points  int             `json:"points"`
}

// ScoredMatch is a match with every prediction classified.
type ScoredMatch struct {
	Date        string             `json:"matchDate,omitempty"`
	Team1       string             `json:"team1"`
	Team2       string             `json:"team2"`
	Score1      model.Goals        `json:"scoreTeam1"`
	Score2      model.Goals        `json:"scoreTeam2"`
	Concluded   bool               `json:"concluded"`
	Predictions []ScoredPrediction `json:"predictions"`
}

// ScoredMatchday groups scored matches of one round.
type ScoredMatchday struct {
	Name    string        `json:"matchdayName"`
	Current bool          `json:"isCurrentMatchday"`
	Next    bool          `json:"isNextMatchday"`
	Matches []ScoredMatch `json:"matches"`
}

// Breakdown classifies every prediction of every match, in source order.
func Breakdown(matchdays []model.Matchday) []ScoredMatchday {
	out := make([]ScoredMatchday, len(matchdays))
	for i, md := range matchdays {
		matches := make([]ScoredMatch, len(md.Matches))
		for j, m := range md.Matches {
			preds := make([]ScoredPrediction, len(m.Predictions))
			for k, p := range m.Predictions {
				o := scoring.ScoreMatch(m, p)
				preds[k] = ScoredPrediction{
					Name:    p.Name,
					Score1:  p.Score1,
					Score2:  p.Score2,
					Outcome: o,
					Points:  o.Points(),
				}
			}
			matches[j] = ScoredMatch{
				Date:        m.Date,
				Team1:       m.Team1,
				Team2:       m.Team2,
				Score1:      m.Score1,
				Score2:      m.Score2,
				Concluded:   m.Concluded(),
				Predictions: preds,
			}
		}
		out[i] = ScoredMatchday{Name: md.Name, Current: md.IsCurrent, Next: md.IsNext, Matches: matches}
	}
	return out
}

// CurrentIndex returns the matchday flagged as current, else the last one.
// It returns -1 when there are no matchdays.
func CurrentIndex(matchdays []model.Matchday) int {
	for i, md := range matchdays {
		if md.IsCurrent {
			return i
		}
	}
	return len(matchdays) - 1
}
