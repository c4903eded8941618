package negotiate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/service/guard"
	"verhandlungsbot/internal/domain/value"
	"verhandlungsbot/pkg/errcodes"
)

// failingGenerator всегда падает: каждый рендер детерминированно уходит
// в заготовку, что делает ответы движка предсказуемыми в тестах.
type failingGenerator struct{}

func (failingGenerator) Complete(context.Context, string, []guard.Turn) (string, error) {
	return "", errors.New("generation service unavailable")
}

func fallbackEngine(seed int64) *Engine {
	g := guard.NewGuard(failingGenerator{}).WithMaxAttempts(1)
	return NewEngine(testPolicy(), g).
		WithRand(rand.New(rand.NewSource(seed))). //nolint:gosec
		WithVariantTag("control")
}

func TestGreetingMentionsListPrice(t *testing.T) {
	e := fallbackEngine(1)

	assert.Contains(t, e.Greeting(), "1000 €")
}

func TestTurnClarificationWhenNoOffer(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())

	res, err := e.Turn(context.Background(), state, "Ist der Akku noch gut?", nil)
	require.NoError(t, err)

	assert.Contains(t, res.Reply, "1000 €")
	assert.False(t, res.Closed)
	assert.Nil(t, res.AvailableDealPrice)
	assert.True(t, res.GuardStats.FellBack)
	assert.Equal(t, 1, state.Turn)
	assert.Equal(t, 2, state.MessageCount)
}

func TestTurnLowballDeclinesWithoutCounter(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())

	res, err := e.Turn(context.Background(), state, "ich biete 300", nil)
	require.NoError(t, err)

	assert.False(t, res.Closed)
	assert.Nil(t, state.LastCounterOffer)
	assert.Nil(t, res.AvailableDealPrice)
	assert.Empty(t, guard.Validate(res.Reply, nil))
}

func TestTurnProducesCounter(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())

	res, err := e.Turn(context.Background(), state, "Ich biete dir 650 €", nil)
	require.NoError(t, err)

	require.NotNil(t, state.LastCounterOffer)
	counter := *state.LastCounterOffer
	assert.Greater(t, counter, e.pol.FloorPrice-1)
	assert.Contains(t, res.Reply, fmt.Sprintf("%d €", counter))
	assert.Contains(t, res.Reply, "650 €")
	assert.False(t, state.DealAvailable)
}

func TestTurnDealFlow(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())
	ctx := context.Background()

	_, err := e.Turn(ctx, state, "Ich biete dir 650 €", nil)
	require.NoError(t, err)
	require.NotNil(t, state.LastCounterOffer)

	counter := *state.LastCounterOffer

	res, err := e.Turn(ctx, state, fmt.Sprintf("okay, ich zahle %d €", counter), nil)
	require.NoError(t, err)

	assert.True(t, state.DealAvailable)
	require.NotNil(t, res.AvailableDealPrice)
	assert.Equal(t, counter, *res.AvailableDealPrice)
	assert.False(t, res.Closed)
}

// Оффер в шаге от действующего контроффера: продавец держит прежнюю
// цену, а не отчитывает покупателя за нереалистичное предложение.
func TestTurnHoldsStandingCounterWhenNoRoom(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())
	state.LastCounterOffer = price(900)

	res, err := e.Turn(context.Background(), state, "ich biete 899 €", nil)
	require.NoError(t, err)

	assert.False(t, res.Closed)
	assert.Nil(t, res.AvailableDealPrice)
	assert.Contains(t, res.Reply, "Ich bleibe bei 900 €")
	assert.NotContains(t, res.Reply, "deutlich unter")
	require.NotNil(t, state.LastCounterOffer)
	assert.Equal(t, value.Price(900), *state.LastCounterOffer)
}

func TestTurnRepeatOfferWarnsThenAborts(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())
	ctx := context.Background()

	_, err := e.Turn(ctx, state, "ich biete 700 €", nil)
	require.NoError(t, err)

	res, err := e.Turn(ctx, state, "ich biete 700 €", nil)
	require.NoError(t, err)
	assert.True(t, res.Warned)
	assert.False(t, res.Closed)

	res, err = e.Turn(ctx, state, "ich biete 700 €", nil)
	require.NoError(t, err)
	assert.True(t, res.Closed)
	assert.Equal(t, entity.OutcomeAborted, res.Outcome)
	assert.Equal(t, ViaRepetition, res.Via)

	require.NotNil(t, res.Result)
	assert.Equal(t, entity.EndedBySystem, res.Result.EndedBy)
	assert.Equal(t, "control", res.Result.VariantTag)
	assert.Equal(t, state.MessageCount, res.Result.MessageCount)
	assert.Nil(t, res.Result.FinalPrice)

	// Закрытая сессия дальше не мутируется.
	_, err = e.Turn(ctx, state, "hallo?", nil)
	require.Error(t, err)
	code, ok := domain.GetCode(err)
	require.True(t, ok)
	assert.Equal(t, errcodes.NegotiationClosed, code)
}

func TestTurnHostilityAbortsImmediately(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())

	res, err := e.Turn(context.Background(), state, "fick dich", nil)
	require.NoError(t, err)

	assert.True(t, res.Closed)
	assert.Equal(t, ViaHostility, res.Via)
	assert.True(t, state.Closed)
}
