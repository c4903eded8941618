package config

import "time"

type Redis struct {
	Address            string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNS" envDefault:"5"`
}

// Session бэкенд хранилища живых сессий: memory для одного инстанса,
// redis для горизонтального масштабирования.
type Session struct {
	Backend string        `env:"SESSION_BACKEND" envDefault:"memory"`
	TTL     time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

// Queue отложенная доставка в стоки через asynq. Требует Redis.
type Queue struct {
	Enabled     bool `env:"QUEUE_ENABLED" envDefault:"false"`
	Concurrency int  `env:"QUEUE_CONCURRENCY" envDefault:"2"`
}
