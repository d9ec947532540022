package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	SessionTTL  time.Duration
	BcryptCost  int
	LogFile     string
}

// RedisConfig configures the session store client. An empty URL means the
// in-memory session store is used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ASKBOARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("ASKBOARD_SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			sessionTTL = d
		}
	}

	bcryptCost := bcrypt.DefaultCost
	if raw := os.Getenv("ASKBOARD_BCRYPT_COST"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= bcrypt.MinCost && n <= bcrypt.MaxCost {
			bcryptCost = n
		}
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		SessionTTL: sessionTTL,
		BcryptCost: bcryptCost,
		LogFile:    os.Getenv("ASKBOARD_LOG_FILE"),
	}
}
