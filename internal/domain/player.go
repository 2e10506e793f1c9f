package domain

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	PoolSize    = 10
	TeamSize    = 5
	HistorySize = 10

	historyMask History = 1<<HistorySize - 1
	latestBit   History = 1 << (HistorySize - 1)
)

type Player struct {
	ID      int64
	Name    string
	Rating  float64
	Server  string
	History History
}

// History is the trailing window of the last ten results, one bit per match.
// The most significant of the ten bits is the most recent match, 1 = win.
type History uint16

func ParseHistory(s string) (History, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > HistorySize {
		return 0, fmt.Errorf("history %q: want 1-%d binary digits", s, HistorySize)
	}
	var h History
	for _, c := range s {
		switch c {
		case '0':
			h <<= 1
		case '1':
			h = h<<1 | 1
		default:
			return 0, fmt.Errorf("history %q: invalid digit %q", s, c)
		}
	}
	return h, nil
}

func (h History) String() string {
	return fmt.Sprintf("%0*b", HistorySize, uint16(h&historyMask))
}

// Wins counts the wins in the window regardless of their order.
func (h History) Wins() int {
	return bits.OnesCount16(uint16(h & historyMask))
}

// Push drops the oldest result and records the newest one in front.
func (h History) Push(won bool) History {
	next := (h & historyMask) >> 1
	if won {
		next |= latestBit
	}
	return next
}

// SignedDifferential turns the margin the operator reports for the winner into
// team 1's point of view.
func SignedDifferential(winner, margin int) int {
	if winner == 2 {
		return -margin
	}
	return margin
}
