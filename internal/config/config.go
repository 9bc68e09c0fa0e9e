package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	BotToken    string `env:"BOT_TOKEN" env-required:"true"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	AdminID     int64  `env:"ADMIN_ID" env-required:"true"`

	PaymentCode   string `env:"PAYMENT_CODE" env-default:"P2P_PAY_2025"`
	Port          string `env:"PORT" env-default:"8080"`
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"./migrations"`

	BroadcastConcurrency int           `env:"BROADCAST_CONCURRENCY" env-default:"8"`
	BroadcastSendTimeout time.Duration `env:"BROADCAST_SEND_TIMEOUT" env-default:"10s"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

// MustLoad reads the environment (with an optional .env file) and aborts
// the process when a required value is missing.
func MustLoad() Config {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
