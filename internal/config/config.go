package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string        `env:"ADDR"              envDefault:":8080"`
	DBPath          string        `env:"DB_PATH"           envDefault:"microblog.db"`
	RedisURL        string        `env:"REDIS_URL"`
	IndexCacheTTL   time.Duration `env:"INDEX_CACHE_TTL"   envDefault:"20s"`
	PostCacheTTL    time.Duration `env:"POST_CACHE_TTL"    envDefault:"20s"`
	SessionLifetime time.Duration `env:"SESSION_LIFETIME"  envDefault:"24h"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT"  envDefault:"10"`
}

func LoadConfig() Config {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	var cfg Config
	env.Must(cfg, env.Parse(&cfg))
	return cfg
}
