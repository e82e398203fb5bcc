package standings

import "slices"

// Prize is a reward bound to one or more final display ranks.
type Prize struct {
	Text      string `json:"text"`
	Positions []int  `json:"positions"`
}

// AwardPrizes returns a copy of rows where each row whose display rank is
// listed by a prize carries that prize's text. Tied rows share the prize of
// their shared rank. The first matching prize wins.
func AwardPrizes(rows []Standing, prizes []Prize) []Standing {
	out := slices.Clone(rows)
	for i := range out {
		out[i].Prize = ""
		for _, p := range prizes {
			if slices.Contains(p.Positions, out[i].Rank) {
				out[i].Prize = p.Text
				break
			}
		}
	}
	return out
}
