package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Config holds everything the coach reads from the environment.
type Config struct {
	StoragePath    string        `env:"STORAGE_PATH" envDefault:"data/sessions.json"`
	JournalPath    string        `env:"JOURNAL_PATH" envDefault:"data/journal.db"`
	SessionID      string        `env:"SESSION_ID" envDefault:"local"`
	IdleTimeout    time.Duration `env:"IDLE_TIMEOUT" envDefault:"5m"`
	AIProvider     string        `env:"AI_PROVIDER" envDefault:"pollinations"`
	AIRatePerMin   float64       `env:"AI_RATE_PER_MIN" envDefault:"6"`
	AIRequestBurst int           `env:"AI_REQUEST_BURST" envDefault:"2"`
}

// New parses the environment into a Config. Bad values are fatal; a
// misconfigured coach should not limp along.
func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("[ERR] config: %v", err)
	}
	return cfg
}
