package negotiate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/domain/value"
)

func newState(t *testing.T) *entity.NegotiationState {
	t.Helper()
	return entity.NewNegotiationState("conv-1", "p-1", time.Now())
}

func price(p value.Price) *value.Price {
	return &p
}

func TestEvaluateHostility(t *testing.T) {
	state := newState(t)

	ev := evaluate("fick dich, das Ding ist Schrott", price(700), state)

	assert.Equal(t, ActionAbort, ev.Action)
	assert.Equal(t, ViaHostility, ev.Via)
	assert.NotEmpty(t, ev.Message)
}

func TestEvaluateNoOffer(t *testing.T) {
	state := newState(t)

	ev := evaluate("Ist der Pencil wirklich dabei?", nil, state)

	assert.Equal(t, ActionContinue, ev.Action)
	assert.Nil(t, state.LastUserOffer)
}

func TestEvaluateRepeatOffer(t *testing.T) {
	state := newState(t)

	ev := evaluate("ich biete 700", price(700), state)
	require.Equal(t, ActionContinue, ev.Action)

	ev = evaluate("700", price(700), state)
	assert.Equal(t, ActionWarn, ev.Action)
	assert.Equal(t, ViaRepetition, ev.Via)

	ev = evaluate("immer noch 700", price(700), state)
	assert.Equal(t, ActionAbort, ev.Action)
	assert.Equal(t, ViaRepetition, ev.Via)
}

func TestEvaluateRepeatCounterResets(t *testing.T) {
	state := newState(t)

	require.Equal(t, ActionContinue, evaluate("700", price(700), state).Action)
	require.Equal(t, ActionWarn, evaluate("700", price(700), state).Action)

	// Новый оффер обнуляет счётчик повторов.
	ev := evaluate("ok, 720", price(720), state)
	require.Equal(t, ActionContinue, ev.Action)
	assert.Zero(t, state.RepeatOfferCount)

	ev = evaluate("720", price(720), state)
	assert.Equal(t, ActionWarn, ev.Action)
}

func TestEvaluateRegression(t *testing.T) {
	state := newState(t)

	require.Equal(t, ActionContinue, evaluate("700", price(700), state).Action)

	ev := evaluate("dann eben 650", price(650), state)
	assert.Equal(t, ActionWarn, ev.Action)
	assert.Equal(t, ViaRegression, ev.Via)
	assert.True(t, state.WarningIssued)

	// Флаг липкий: любой следующий откат завершает сессию.
	require.Equal(t, ActionContinue, evaluate("gut, 680", price(680), state).Action)

	ev = evaluate("600", price(600), state)
	assert.Equal(t, ActionAbort, ev.Action)
	assert.Equal(t, ViaRegression, ev.Via)
}

func TestEvaluateStalling(t *testing.T) {
	state := newState(t)
	state.LastCounterOffer = price(900)

	require.Equal(t, ActionContinue, evaluate("700", price(700), state).Action)

	ev := evaluate("701", price(701), state)
	assert.Equal(t, ActionWarn, ev.Action)
	assert.Equal(t, ViaStalling, ev.Via)

	ev = evaluate("703", price(703), state)
	assert.Equal(t, ActionAbort, ev.Action)
	assert.Equal(t, ViaStalling, ev.Via)
}

func TestEvaluateStallingResetOnRealStep(t *testing.T) {
	state := newState(t)
	state.LastCounterOffer = price(900)

	require.Equal(t, ActionContinue, evaluate("700", price(700), state).Action)
	require.Equal(t, ActionWarn, evaluate("701", price(701), state).Action)

	// Настоящий шаг обнуляет счётчик мелких шагов.
	require.Equal(t, ActionContinue, evaluate("750", price(750), state).Action)
	assert.Zero(t, state.SmallStepCount)

	ev := evaluate("751", price(751), state)
	assert.Equal(t, ActionWarn, ev.Action)
}

func TestEvaluateSmallStepNearCounterIsFine(t *testing.T) {
	state := newState(t)
	state.LastCounterOffer = price(900)

	// Разрыв маленький — мелкие шаги у самой цели не наказываются.
	require.Equal(t, ActionContinue, evaluate("890", price(890), state).Action)

	ev := evaluate("892", price(892), state)
	assert.Equal(t, ActionContinue, ev.Action)
}
