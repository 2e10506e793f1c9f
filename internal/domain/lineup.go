package domain

import "math"

type Lineup struct {
	TeamA []Player
	TeamB []Player
}

func (l Lineup) SumA() float64 { return sumRatings(l.TeamA) }
func (l Lineup) SumB() float64 { return sumRatings(l.TeamB) }

func (l Lineup) Imbalance() float64 {
	return math.Abs(l.SumA() - l.SumB())
}

// Players returns team A followed by team B.
func (l Lineup) Players() []Player {
	out := make([]Player, 0, len(l.TeamA)+len(l.TeamB))
	out = append(out, l.TeamA...)
	return append(out, l.TeamB...)
}

func sumRatings(players []Player) float64 {
	var total float64
	for _, p := range players {
		total += p.Rating
	}
	return total
}
