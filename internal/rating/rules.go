package rating

// Rule is one row of the base delta table. Rules are checked in order and the
// first one that applies decides the delta.
type Rule struct {
	Name    string
	Applies func(wins int, won bool) bool
	Delta   float64
}

// Rules is the base delta table keyed on the number of wins in the trailing
// window. The bands overlap; order matters.
var Rules = []Rule{
	{
		Name:    "hot winner",
		Applies: func(wins int, won bool) bool { return won && (wins == 7 || wins == 8) },
		Delta:   1.2,
	},
	{
		Name:    "cold loser",
		Applies: func(wins int, won bool) bool { return !won && (wins == 2 || wins == 3) },
		Delta:   -1.2,
	},
	{
		Name:    "loser",
		Applies: func(wins int, won bool) bool { return !won && wins > 1 },
		Delta:   -1.0,
	},
	{
		Name:    "dominant winner",
		Applies: func(wins int, won bool) bool { return won && wins >= 9 },
		Delta:   1.5,
	},
	{
		Name:    "slumping loser",
		Applies: func(wins int, won bool) bool { return !won && wins <= 1 },
		Delta:   -1.5,
	},
	{
		Name:    "winner",
		Applies: func(wins int, won bool) bool { return won && wins < 9 },
		Delta:   1.0,
	},
}

const (
	marginDivisor     = 5.0
	participationCost = 0.2
)

// BaseDelta returns the delta of the first matching rule, or 0 when none does.
func BaseDelta(wins int, won bool) float64 {
	if r, ok := MatchRule(wins, won); ok {
		return r.Delta
	}
	return 0
}

func MatchRule(wins int, won bool) (Rule, bool) {
	for _, r := range Rules {
		if r.Applies(wins, won) {
			return r, true
		}
	}
	return Rule{}, false
}
