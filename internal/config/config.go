package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    Server
	Policy    Policy
	OpenAI    OpenAI
	Postgres  Postgres
	Redis     Redis
	Session   Session
	Queue     Queue
	Dashboard Dashboard
	Bot       Bot
}

// Dashboard доступ исследователя к результатам.
type Dashboard struct {
	Key string `env:"DASHBOARD_KEY,notEmpty" json:"-"`
}

// Bot телеграм-уведомления о завершённых сессиях. Выключен по умолчанию.
type Bot struct {
	Enabled bool   `env:"BOT_ENABLED" envDefault:"false"`
	Token   string `env:"BOT_TOKEN" json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
