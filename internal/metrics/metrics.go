// Package metrics счётчики движка переговоров в реестре Prometheus
// по умолчанию; наружу их отдаёт метрик-сервер.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	NegotiationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "negotiation_sessions_started_total",
		Help: "Количество начатых сессий переговоров.",
	})

	Turns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "negotiation_turns_total",
		Help: "Количество обработанных ходов покупателя.",
	})

	Warnings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "negotiation_warnings_total",
		Help: "Предупреждения анти-стратегий по причинам.",
	}, []string{"via"})

	Concluded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "negotiation_sessions_concluded_total",
		Help: "Завершённые сессии по исходу и причине.",
	}, []string{"outcome", "via"})

	GuardAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reply_guard_attempts_total",
		Help: "Обращения к генератору, включая повторы после нарушений.",
	})

	GuardFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reply_guard_fallbacks_total",
		Help: "Ответы, заменённые детерминированной заготовкой.",
	})
)
