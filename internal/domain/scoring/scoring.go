// Package scoring classifies a single prediction against a match result.
package scoring

import (
	"cmp"

	"github.com/okian/prode/internal/domain/model"
)

// Points awarded per outcome.
const (
	ExactPoints   = 3
	PartialPoints = 1
)

// Outcome is the classification of one prediction against one match.
type Outcome int

// Outcomes, in precedence order.
const (
	// Unplayed means the match has no concluded result yet.
	Unplayed Outcome = iota
	// Missing means the match concluded but no prediction was submitted.
	Missing
	// Exact means both scores were predicted exactly.
	Exact
	// Partial means the winner (or the draw) was predicted but not the score.
	Partial
	// Incorrect means the predicted result class was wrong.
	Incorrect
)

// Outcomes lists every outcome, useful for metrics and exhaustive tests.
var Outcomes = []Outcome{Unplayed, Missing, Exact, Partial, Incorrect}

func (o Outcome) String() string {
	switch o {
	case Unplayed:
		return "unplayed"
	case Missing:
		return "missing"
	case Exact:
		return "exact"
	case Partial:
		return "partial"
	case Incorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// MarshalText lets outcomes travel as their names in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Points returns the points the outcome is worth.
func (o Outcome) Points() int {
	switch o {
	case Exact:
		return ExactPoints
	case Partial:
		return PartialPoints
	default:
		return 0
	}
}

// Counted reports whether the outcome counts as a played match.
func (o Outcome) Counted() bool {
	return o == Exact || o == Partial || o == Incorrect
}

// Score classifies a prediction. It is pure and total: every combination of
// present and absent values maps to exactly one outcome.
func Score(actual1, actual2, predicted1, predicted2 model.Goals) Outcome {
	a1, ok1 := actual1.Value()
	a2, ok2 := actual2.Value()
	if !ok1 || !ok2 {
		return Unplayed
	}
	p1, ok1 := predicted1.Value()
	p2, ok2 := predicted2.Value()
	if !ok1 || !ok2 {
		return Missing
	}
	if a1 == p1 && a2 == p2 {
		return Exact
	}
	if cmp.Compare(a1, a2) == cmp.Compare(p1, p2) {
		return Partial
	}
	return Incorrect
}

// ScoreMatch is Score applied to a match and one of its predictions.
func ScoreMatch(m model.Match, p model.Prediction) Outcome {
	return Score(m.Score1, m.Score2, p.Score1, p.Score2)
}
