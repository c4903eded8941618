package config

import "time"

// OpenAI настройки генерации. Без ключа приложение поднимается
// на заглушке генератора.
type OpenAI struct {
	APIKey  string        `env:"OPENAI_API_KEY" json:"-"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"20s"`
}
