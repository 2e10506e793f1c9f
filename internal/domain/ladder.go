package domain

type LadderEntry struct {
	Rank    int64
	Name    string
	Server  string
	Rating  float64
	Wins    int64
	History string
}
