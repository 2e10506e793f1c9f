package cache

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PendingLineup is a proposed match waiting for its result.
type PendingLineup struct {
	MatchID   uuid.UUID `json:"match_id"`
	TeamA     []int64   `json:"team_a"`
	TeamB     []int64   `json:"team_b"`
	CreatedAt int64     `json:"created_at"`
}

// PendingLineups holds at most one pending lineup per chat.
type PendingLineups struct {
	chats sync.Map // map[int64]*PendingLineup
	now   func() time.Time
}

func NewPendingLineups() *PendingLineups {
	return &PendingLineups{now: time.Now}
}

// Put stores a new lineup for chat, replacing any previous one, and returns it.
func (c *PendingLineups) Put(chatId int64, teamA, teamB []int64) PendingLineup {
	p := PendingLineup{
		MatchID:   uuid.New(),
		TeamA:     append([]int64(nil), teamA...),
		TeamB:     append([]int64(nil), teamB...),
		CreatedAt: c.now().Unix(),
	}
	c.chats.Store(chatId, &p)
	return p
}

func (c *PendingLineups) Get(chatId int64) (PendingLineup, bool) {
	val, ok := c.chats.Load(chatId)
	if !ok {
		return PendingLineup{}, false
	}
	return *val.(*PendingLineup), true
}

// Resolve removes the lineup of chat only if it is still matchID, so a result
// reported for a replaced lineup does not drop the new one.
func (c *PendingLineups) Resolve(chatId int64, matchID uuid.UUID) bool {
	val, ok := c.chats.Load(chatId)
	if !ok || val.(*PendingLineup).MatchID != matchID {
		return false
	}
	return c.chats.CompareAndDelete(chatId, val)
}

func (c *PendingLineups) Len() int {
	n := 0
	c.chats.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Expire drops lineups older than ttl and returns how many were removed.
func (c *PendingLineups) Expire(ttl time.Duration) int {
	cutoff := c.now().Add(-ttl).Unix()
	removed := 0
	c.chats.Range(func(key, value any) bool {
		if value.(*PendingLineup).CreatedAt < cutoff {
			if c.chats.CompareAndDelete(key, value) {
				removed++
			}
		}
		return true
	})
	return removed
}

// SaveToFile writes a snapshot keyed by chat id, replacing path atomically.
func (c *PendingLineups) SaveToFile(path string) error {
	snap := make(map[string]PendingLineup)
	c.chats.Range(func(key, value any) bool {
		snap[strconv.FormatInt(key.(int64), 10)] = *value.(*PendingLineup)
		return true
	})

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadFromFile restores a snapshot. A missing file is not an error.
func (c *PendingLineups) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var snap map[string]PendingLineup
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	for k, p := range snap {
		chatId, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		c.chats.Store(chatId, &p)
	}
	return nil
}
