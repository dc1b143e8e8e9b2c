package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	// DB
	Env    string // "dev" | "prod"
	DBPath string // e.g. "./data/cardaccess.db"

	// Listener
	PollTimeout time.Duration // reader poll timeout, keeps the loop responsive to shutdown

	// Console
	InlineRegistration bool // offer registration when an unknown card is scanned

	// HTTP history endpoint
	HistoryLimit int // default row cap when the client doesn't pass ?limit=
}

// LoadDotenv loads the first .env file found near the working directory.
// Missing files are fine; real env vars always win.
func LoadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func FromEnv() Config {
	addr := getenvDefault("CARDACCESS_HTTP_ADDR", ":8080")

	env := strings.ToLower(getenvDefault("CARDACCESS_ENV", "dev"))
	if env != "dev" && env != "prod" {
		// fail-soft: treat unknown as dev
		env = "dev"
	}

	dbPath := getenvDefault("CARDACCESS_DB_PATH", "./data/cardaccess.db")

	pollMs := getenvInt("CARDACCESS_POLL_TIMEOUT_MS", 1000)
	if pollMs == 0 {
		pollMs = 1000
	}

	inlineReg := !strings.EqualFold(os.Getenv("CARDACCESS_INLINE_REGISTRATION"), "false") &&
		os.Getenv("CARDACCESS_INLINE_REGISTRATION") != "0"

	historyLimit := getenvInt("CARDACCESS_HISTORY_LIMIT", 50)

	return Config{
		HTTPAddr: addr,
		Env:      env,
		DBPath:   dbPath,

		PollTimeout:        time.Duration(pollMs) * time.Millisecond,
		InlineRegistration: inlineReg,
		HistoryLimit:       historyLimit,
	}
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
