// Package guard оборачивает внешний генератор текста. Генератор не доверен:
// он может галлюцинировать запрещённые фреймы и чужие числа, поэтому каждый
// ответ проверяется, при нарушении перегенерируется, а после исчерпания
// попыток заменяется детерминированной заготовкой.
package guard

import (
	"context"
	"fmt"
	"strings"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/pkg/contextx"
	"verhandlungsbot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Turn реплика диалога для генератора.
type Turn struct {
	Role entity.Role
	Text string
}

// Generator внешний сервис генерации. Все реализации взаимозаменяемы.
type Generator interface {
	Complete(ctx context.Context, instructions string, turns []Turn) (string, error)
}

// Request контекст одного обращения к генератору.
type Request struct {
	Policy  policy.Policy
	History []Turn
	// Sanctioned — закрытое множество чисел, которые ответ имеет право
	// упоминать как денежные суммы (оффер покупателя и/или контроффер).
	Sanctioned value.SanctionedSet
	// AllowEmptyNumeric: ответ может вообще не содержать чисел
	// (зона отказа без контроффера).
	AllowEmptyNumeric bool
	// Hint подсказка генератору, что именно сказать в этом ходе.
	Hint string
	// Fallback детерминированная заготовка; обязана сама проходить проверку.
	Fallback string
}

// Stats счётчики одного рендера для метрик.
type Stats struct {
	Attempts   int
	Violations int
	FellBack   bool
}

type Guard struct {
	generator   Generator
	maxAttempts int
}

func NewGuard(generator Generator) *Guard {
	return &Guard{
		generator:   generator,
		maxAttempts: policy.GuardMaxAttempts,
	}
}

func (g *Guard) WithMaxAttempts(n int) *Guard {
	g.maxAttempts = n
	return g
}

// Render запрашивает ответ у генератора и гарантирует, что наружу уйдёт
// только текст без запрещённых фреймов и чужих чисел. Ошибки транспорта,
// таймауты и нарушения ограничений обрабатываются одинаково: повтор,
// затем заготовка. Наружу ошибка не выходит никогда.
func (g *Guard) Render(ctx context.Context, req Request) (string, Stats) {
	instructions := buildInstructions(req)

	var stats Stats
	notice := ""

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		stats.Attempts = attempt

		out, err := g.generator.Complete(ctx, instructions+notice, req.History)
		if err != nil {
			logger(ctx).Warn("generator failed", logx.Error(err), "attempt", attempt)
			continue
		}

		violations := Validate(out, req.Sanctioned)
		if len(violations) == 0 {
			return strings.TrimSpace(out), stats
		}

		stats.Violations += len(violations)
		logger(ctx).Warn("generator output rejected",
			"attempt", attempt,
			"violations", strings.Join(violations, "; "),
		)

		notice = "\n\nVERSTOSS: Deine letzte Antwort hat die Regeln verletzt (" +
			strings.Join(violations, "; ") +
			"). Formuliere neu und halte dich strikt an die Vorgaben."
	}

	stats.FellBack = true

	return req.Fallback, stats
}

func buildInstructions(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b,
		"Du simulierst eine Kleinanzeigen-Verhandlung als VERKÄUFER eines iPad (neu, 256 GB, Space Grey, Apple Pencil 2. Gen, M5-Chip). "+
			"Ausgangspreis: %d €. Sprache: Deutsch. Ton: %s. "+
			"Antwortlänge: höchstens %d Sätze, keine Listen. ",
		req.Policy.ListPrice, req.Policy.Tone, req.Policy.MaxReplySentences,
	)

	b.WriteString(
		"Kontrollbedingung: KEINE Macht-, Knappheits- oder Autoritäts-Frames, " +
			"keine Hinweise auf andere Interessenten, Deadlines, Neupreis oder Schmerzgrenze. " +
			"Keine Drohungen, keine Beleidigungen, keine Falschangaben. Bleibe strikt in der Rolle. " +
			"Nenne oder verrate NIEMALS eine Untergrenze oder einen Mindestpreis. ",
	)

	sanctioned := req.Sanctioned.Values()
	switch {
	case len(sanctioned) == 0 && req.AllowEmptyNumeric:
		b.WriteString("Nenne in dieser Antwort KEINE Geldbeträge und keine Zahlen. ")
	case len(sanctioned) == 0:
		b.WriteString("Nenne in dieser Antwort keine Geldbeträge. ")
	default:
		prices := make([]string, 0, len(sanctioned))
		for _, p := range sanctioned {
			prices = append(prices, p.String())
		}
		fmt.Fprintf(&b,
			"Als Geldbeträge darfst du AUSSCHLIESSLICH folgende Zahlen nennen: %s €. Keine anderen Beträge. ",
			strings.Join(prices, " €, "),
		)
	}

	if req.Hint != "" {
		b.WriteString("Inhalt dieser Antwort: ")
		b.WriteString(req.Hint)
	}

	return b.String()
}
