package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"chessview/internal/logging"
)

// Config holds the service settings read from the environment.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration
	ChessComURL string
	LichessURL  string
	FetchLimit  int
	HTTPTimeout time.Duration
	UserAgent   string
	LogLevel    string
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Addr:        ":8080",
		CacheTTL:    5 * time.Minute,
		ChessComURL: "https://api.chess.com",
		LichessURL:  "https://lichess.org",
		FetchLimit:  10,
		HTTPTimeout: 15 * time.Second,
		UserAgent:   "chessview/1.0",
		LogLevel:    "info",
	}
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logging.Debugf("no .env file loaded: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, keeping defaults for unset or
// unparsable values.
func FromEnv(getenv func(string) string) Config {
	c := Defaults()
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v := getenv(key)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			logging.Warnf("ignoring %s=%q: %v", key, v, err)
			return
		}
		*dst = d
	}

	str("CHESSVIEW_ADDR", &c.Addr)
	str("DATABASE_URL", &c.DatabaseURL)
	str("REDIS_URL", &c.RedisURL)
	dur("CACHE_TTL", &c.CacheTTL)
	str("CHESSCOM_BASE_URL", &c.ChessComURL)
	str("LICHESS_BASE_URL", &c.LichessURL)
	dur("HTTP_TIMEOUT", &c.HTTPTimeout)
	str("USER_AGENT", &c.UserAgent)
	str("LOG_LEVEL", &c.LogLevel)

	if v := getenv("FETCH_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			logging.Warnf("ignoring FETCH_LIMIT=%q", v)
		} else {
			c.FetchLimit = n
		}
	}
	return c
}
