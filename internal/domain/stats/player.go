// Package stats accumulates a player's scoring counters across matchdays.
package stats

import (
	"github.com/okian/prode/internal/domain/model"
	"github.com/okian/prode/internal/domain/scoring"
)

// Player holds one roster entry's counters for a single ranking run.
type Player struct {
	Name          string
	Points        int
	ExactHits     int
	PartialHits   int
	Incorrects    int
	PlayedMatches int
	// GoalsErrorSum is the sum of per-team absolute goal differences over
	// every scored prediction. Lower is better.
	GoalsErrorSum int
}

// NewPlayer returns a player with zeroed counters.
func NewPlayer(name string) *Player {
	return &Player{Name: name}
}

// Apply folds one outcome into the counters. Missing and Unplayed leave
// the player untouched.
func (p *Player) Apply(o scoring.Outcome) {
	switch o {
	case scoring.Exact:
		p.ExactHits++
	case scoring.Partial:
		p.PartialHits++
	case scoring.Incorrect:
		p.Incorrects++
	default:
		return
	}
	p.Points += o.Points()
	p.PlayedMatches++
}

// ApplyGoalError adds |p1-a1| + |p2-a2| when all four scores are present.
func (p *Player) ApplyGoalError(actual1, actual2, predicted1, predicted2 model.Goals) {
	a1, ok1 := actual1.Value()
	a2, ok2 := actual2.Value()
	p1, ok3 := predicted1.Value()
	p2, ok4 := predicted2.Value()
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return
	}
	p.GoalsErrorSum += abs(p1-a1) + abs(p2-a2)
}

// Consistent reports whether the played-match invariant holds.
func (p *Player) Consistent() bool {
	return p.PlayedMatches == p.ExactHits+p.PartialHits+p.Incorrects
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
