// Package negotiate реализует движок переговоров: трекер состояния с
// политикой прерывания, расчёт уступок и закрытие сделки. Один ход
// обрабатывается строго синхронно; состояние сессии мутируется только здесь.
package negotiate

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/policy"
	"verhandlungsbot/internal/domain/service/extract"
	"verhandlungsbot/internal/domain/service/guard"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/pkg/contextx"
	"verhandlungsbot/pkg/errcodes"
	"verhandlungsbot/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// randSource источник случайности движка. Вся рандомизация (уступки,
// дрожание цен) идёт через него, в тестах подменяется на seeded rand.
type randSource interface {
	Intn(n int) int
}

// lockedRand math/rand не потокобезопасен, а движок один на все сессии.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// TurnResult итог одного хода.
type TurnResult struct {
	Reply              string
	Warned             bool
	Closed             bool
	Outcome            entity.Outcome
	AvailableDealPrice *value.Price
	// Via причина предупреждения или прерывания (пусто при обычном ходе).
	Via        string
	GuardStats guard.Stats
	// Result заполнен, когда ход завершил сессию (системное прерывание).
	Result *entity.Result
}

type Engine struct {
	pol        policy.Policy
	guard      *guard.Guard
	rng        randSource
	variantTag string
	now        func() time.Time
}

func NewEngine(pol policy.Policy, g *guard.Guard) *Engine {
	return &Engine{
		pol:   pol,
		guard: g,
		rng: &lockedRand{
			r: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // не криптография
		},
		now: time.Now,
	}
}

func (e *Engine) WithRand(r randSource) *Engine {
	e.rng = r
	return e
}

func (e *Engine) WithVariantTag(tag string) *Engine {
	e.variantTag = tag
	return e
}

func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Greeting первая реплика продавца, упоминает только ausgangspreis.
func (e *Engine) Greeting() string {
	return fmt.Sprintf(
		"Hi! Ich biete ein neues iPad (256 GB, Space Grey) inklusive Apple Pencil (2. Gen) mit M5-Chip an. "+
			"Der Ausgangspreis liegt bei %d €. Was schwebt dir preislich vor?",
		e.pol.ListPrice,
	)
}

// Turn обрабатывает одну реплику покупателя: извлечение оффера -> политика
// прерывания -> расчёт уступки -> генерация ответа под защитой guard.
// Состояние мутируется в любом случае, даже если генератор упал.
func (e *Engine) Turn(ctx context.Context, state *entity.NegotiationState, userText string, history []guard.Turn) (TurnResult, error) {
	if state.Closed {
		return TurnResult{}, domain.NewError(errcodes.NegotiationClosed, "negotiation already closed")
	}

	state.Turn++
	state.MessageCount++ // реплика покупателя

	var offer *value.Price
	if extracted, found := extract.Extract(userText); found {
		offer = &extracted
	}

	ev := evaluate(userText, offer, state)

	switch ev.Action {
	case ActionAbort:
		state.MessageCount++ // финальная реплика продавца
		result := e.closeAborted(state, entity.EndedBySystem, ev.Via)
		return TurnResult{
			Reply:   ev.Message,
			Closed:  true,
			Outcome: entity.OutcomeAborted,
			Via:     ev.Via,
			Result:  result,
		}, nil

	case ActionWarn:
		state.MessageCount++
		return TurnResult{Reply: ev.Message, Warned: true, Via: ev.Via}, nil

	case ActionContinue:
	}

	var (
		reply string
		stats guard.Stats
	)

	if offer == nil {
		reply, stats = e.renderClarification(ctx, history)
	} else {
		reply, stats = e.renderCounterMove(ctx, *offer, state, history)
	}

	state.MessageCount++

	return TurnResult{
		Reply:              reply,
		AvailableDealPrice: state.AvailableDealPrice(),
		GuardStats:         stats,
	}, nil
}

// renderClarification оффера нет — это не ошибка, просим назвать число.
func (e *Engine) renderClarification(ctx context.Context, history []guard.Turn) (string, guard.Stats) {
	return e.guard.Render(ctx, guard.Request{
		Policy:     e.pol,
		History:    history,
		Sanctioned: value.NewSanctionedSet(e.pol.ListPrice),
		Hint: "Gehe kurz auf die Nachricht ein und frage nach einer konkreten Preisvorstellung. " +
			"Du darfst den Ausgangspreis nennen.",
		Fallback: fmt.Sprintf(
			"Der Ausgangspreis liegt bei %d €. Was schwebt dir preislich vor?",
			e.pol.ListPrice,
		),
	})
}

func (e *Engine) renderCounterMove(ctx context.Context, offer value.Price, state *entity.NegotiationState, history []guard.Turn) (string, guard.Stats) {
	cc := e.computeCounter(offer, state, e.pol)

	switch {
	case cc.Deal:
		state.DealAvailable = true
		agreed := *state.LastCounterOffer

		return e.guard.Render(ctx, guard.Request{
			Policy:     e.pol,
			History:    history,
			Sanctioned: value.NewSanctionedSet(offer, agreed),
			Hint: fmt.Sprintf(
				"Signalisiere Einigung bei %d € und bitte um Bestätigung über den Deal-Button.",
				agreed,
			),
			Fallback: fmt.Sprintf(
				"Einverstanden – bei %d € können wir zusammenkommen. Bestätige den Deal, dann halten wir das fest.",
				agreed,
			),
		})

	case cc.NoRoom && state.LastCounterOffer != nil:
		// Двигаться некуда: оффер в шаге от действующего контроффера.
		// Держим прежнюю цену вместо отповеди про нереалистичность.
		standing := *state.LastCounterOffer

		return e.guard.Render(ctx, guard.Request{
			Policy:     e.pol,
			History:    history,
			Sanctioned: value.NewSanctionedSet(offer, standing),
			Hint: fmt.Sprintf(
				"Bleibe freundlich bei deinem letzten Angebot von %d € und bitte um eine Entscheidung.",
				standing,
			),
			Fallback: fmt.Sprintf(
				"Ich bleibe bei %d € – näher kann ich dir nicht entgegenkommen. Passt das für dich?",
				standing,
			),
		})

	case !cc.HasCounter:
		// Зона отказа: без контроффера и без чисел в ответе.
		return e.guard.Render(ctx, guard.Request{
			Policy:            e.pol,
			History:           history,
			Sanctioned:        value.NewSanctionedSet(),
			AllowEmptyNumeric: true,
			Hint: "Lehne das Angebot höflich ab, erkläre kurz den Wert des Geräts und " +
				"bitte um ein realistischeres Angebot. Nenne keine Beträge.",
			Fallback: "Das liegt deutlich unter einem realistischen Preis für dieses Gerät. " +
				"Bitte nenn mir ein ernsthafteres Angebot.",
		})

	default:
		counter := cc.Counter
		state.LastCounterOffer = &counter
		state.DealAvailable = false

		logger(ctx).Debug("counter-offer computed",
			logx.FieldOffer, offer.Int64(),
			logx.FieldCounterOffer, counter.Int64(),
			logx.FieldTurn, state.Turn,
		)

		return e.guard.Render(ctx, guard.Request{
			Policy:     e.pol,
			History:    history,
			Sanctioned: value.NewSanctionedSet(offer, counter),
			Hint: fmt.Sprintf(
				"Gehe auf das Angebot von %d € ein und kontere mit %d €. Begründe knapp über Zustand und Zubehör.",
				offer, counter,
			),
			Fallback: fmt.Sprintf(
				"Danke für dein Angebot von %d €. Ich könnte dir bei %d € entgegenkommen – passt das für dich?",
				offer, counter,
			),
		})
	}
}
