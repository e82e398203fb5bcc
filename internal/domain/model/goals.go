package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxGoals bounds what we accept as a real score; anything larger is treated as garbage.
const maxGoals = math.MaxInt32

// Goals is an optional, non-negative score. The zero value is absent: an
// unplayed match on the result side, a prediction that was never submitted
// on the prediction side.
type Goals struct {
	value int
	set   bool
}

// GoalsOf returns a present score. Negative input yields an absent score.
func GoalsOf(n int) Goals {
	if n < 0 || n > maxGoals {
		return Goals{}
	}
	return Goals{value: n, set: true}
}

// NoGoals returns an absent score.
func NoGoals() Goals { return Goals{} }

// ParseGoals parses the textual forms found in matchday files. Empty,
// negative, fractional or non-numeric input yields an absent score.
func ParseGoals(s string) Goals {
	s = strings.TrimSpace(s)
	if s == "" {
		return Goals{}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return GoalsOf(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > maxGoals {
		return Goals{}
	}
	return GoalsOf(int(f))
}

// Value returns the score and whether it is present.
func (g Goals) Value() (int, bool) { return g.value, g.set }

// Present reports whether the score is set.
func (g Goals) Present() bool { return g.set }

// String renders the score, or "" when absent (the wire sentinel).
func (g Goals) String() string {
	if !g.set {
		return ""
	}
	return strconv.Itoa(g.value)
}

// MarshalJSON writes a number, or "" when absent.
func (g Goals) MarshalJSON() ([]byte, error) {
	if !g.set {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(g.value)), nil
}

// UnmarshalJSON never fails: anything that is not a usable score decodes as absent.
func (g *Goals) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*g = Goals{}
			return nil
		}
		*g = ParseGoals(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*g = Goals{}
		return nil
	}
	*g = ParseGoals(string(b))
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML matchday files.
func (g *Goals) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		*g = Goals{}
		return nil
	}
	*g = ParseGoals(node.Value)
	return nil
}
