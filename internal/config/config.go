package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT, default=8080"`
	GinMode  string `env:"GIN_MODE, default=debug"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// DBDriver selects the relational backend: postgres or mysql.
	DBDriver   string `env:"DB_DRIVER, default=postgres"`
	DBHost     string `env:"DB_HOST, default=localhost"`
	DBPort     string `env:"DB_PORT, default=5432"`
	DBUser     string `env:"DB_USER, default=callcrm"`
	DBPassword string `env:"DB_PASSWORD, default=callcrm"`
	DBName     string `env:"DB_NAME, default=callcrm"`

	RedisHost     string `env:"REDIS_HOST, default=localhost"`
	RedisPort     string `env:"REDIS_PORT, default=6379"`
	SessionSecret string `env:"SESSION_SECRET, default=default-secret-key-change-me"`

	// UploadDir is where fulfillment PDFs are written.
	UploadDir string `env:"UPLOAD_DIR, default=uploads"`

	// OrderCreditCost is debited from non-superadmin balances per created order.
	OrderCreditCost int64 `env:"ORDER_CREDIT_COST, default=1"`

	// Bootstrap superadmin passwords. The accounts are created on first boot
	// when missing and can never be deleted.
	RootPassword    string `env:"ROOT_PASSWORD, default=1234"`
	AirbonePassword string `env:"AIRBONE_PASSWORD"`

	// Telegram notification settings. Empty token disables notifications.
	TelegramToken  string `env:"TELEGRAM_APITOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	// SupportContact is shown on the support/plans pages.
	SupportContact string `env:"SUPPORT_CONTACT, default=https://t.me/Airbone_19"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}
