package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "development"
	EnvProd  = "production"
)

type Config struct {
	Env                           string        `mapstructure:"ENV"`
	Port                          string        `mapstructure:"PORT"`
	DatabaseDriver                string        `mapstructure:"DATABASE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	TokenTTL                      time.Duration `mapstructure:"TOKEN_TTL"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	RabbitMQURL                   string        `mapstructure:"RABBITMQ_URL"`
	// RequirePayment turns on the payment gate in booking admission.
	RequirePayment bool `mapstructure:"REQUIRE_PAYMENT"`
	// CapacityGuard is "transaction" or "none".
	CapacityGuard string `mapstructure:"CAPACITY_GUARD"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("ENV", EnvLocal)
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "booking.db")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	v.SetDefault("REQUIRE_PAYMENT", false)
	v.SetDefault("CAPACITY_GUARD", "transaction")

	v.BindEnv("JWT_SECRET")
	v.BindEnv("DISCORD_CLIENT_ID")
	v.BindEnv("DISCORD_CLIENT_SECRET")
	v.BindEnv("DISCORD_BOT_TOKEN")
	v.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	v.BindEnv("RABBITMQ_URL")

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	switch config.CapacityGuard {
	case "transaction", "none":
	default:
		return nil, fmt.Errorf("invalid CAPACITY_GUARD %q", config.CapacityGuard)
	}

	return &config, nil
}
