package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken         string
	DBPath           string
	ImportPath       string
	DevIDs           []int64
	LogLevel         string
	LogFile          string
	PendingCachePath string
	PendingTTL       time.Duration
}

// Load reads the environment, after merging in any of envFiles that exist.
// Variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	ttlMinutes, err := getEnvAsInt("PENDING_TTL_MINUTES", 120)
	if err != nil {
		return nil, err
	}
	if ttlMinutes <= 0 {
		return nil, fmt.Errorf("PENDING_TTL_MINUTES must be positive, got %d", ttlMinutes)
	}

	return &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		DBPath:           getEnvOrDefault("DB_PATH", "ranking.db"),
		ImportPath:       getEnvOrDefault("IMPORT_PATH", "players.txt"),
		DevIDs:           parseDevIDs(os.Getenv("DEV_IDS")),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
		PendingCachePath: getEnvOrDefault("PENDING_CACHE_PATH", "pending.json"),
		PendingTTL:       time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

// BotMode reports whether the Telegram front end should run instead of the
// console prompt.
func (c *Config) BotMode() bool {
	return c.BotToken != ""
}

func parseDevIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}
