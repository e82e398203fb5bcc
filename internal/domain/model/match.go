// Package model contains the matchday records shared between the data source,
// the scoring core and the read API.
package model

// Prediction is one player's predicted score for a match. Its position in
// Match.Predictions identifies the player (roster order).
type Prediction struct {
	Name      string `json:"name" yaml:"name"`
	CleanName string `json:"cleanName,omitempty" yaml:"cleanName,omitempty"`
	Score1    Goals  `json:"scoreTeam1" yaml:"scoreTeam1"`
	Score2    Goals  `json:"scoreTeam2" yaml:"scoreTeam2"`
}

// Submitted reports whether both predicted scores are present.
func (p Prediction) Submitted() bool {
	return p.Score1.Present() && p.Score2.Present()
}

// Match is a fixture with its actual result (possibly not yet known) and the
// predictions made for it.
type Match struct {
	// Date is kept verbatim from the source; formatting it is a presentation concern.
	Date        string       `json:"matchDate,omitempty" yaml:"matchDate,omitempty"`
	Team1       string       `json:"team1" yaml:"team1"`
	Team2       string       `json:"team2" yaml:"team2"`
	Score1      Goals        `json:"scoreTeam1" yaml:"scoreTeam1"`
	Score2      Goals        `json:"scoreTeam2" yaml:"scoreTeam2"`
	Predictions []Prediction `json:"predictions" yaml:"predictions"`
}

// Concluded reports whether both actual scores are known.
func (m Match) Concluded() bool {
	return m.Score1.Present() && m.Score2.Present()
}

// PredictionAt returns the prediction for roster index i, if the source has one.
func (m Match) PredictionAt(i int) (Prediction, bool) {
	if i < 0 || i >= len(m.Predictions) {
		return Prediction{}, false
	}
	return m.Predictions[i], true
}

// Matchday is a named round of matches.
type Matchday struct {
	Name      string  `json:"matchdayName" yaml:"matchdayName"`
	IsCurrent bool    `json:"isCurrentMatchday,omitempty" yaml:"isCurrentMatchday,omitempty"`
	IsNext    bool    `json:"isNextMatchday,omitempty" yaml:"isNextMatchday,omitempty"`
	Matches   []Match `json:"matchdayMatchs" yaml:"matchdayMatchs"`
}
