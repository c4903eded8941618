package negotiate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/pkg/errcodes"
)

func dealReadyState(t *testing.T, e *Engine) *entity.NegotiationState {
	t.Helper()

	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())
	ctx := context.Background()

	_, err := e.Turn(ctx, state, "Ich biete dir 650 €", nil)
	require.NoError(t, err)
	require.NotNil(t, state.LastCounterOffer)

	_, err = e.Turn(ctx, state, fmt.Sprintf("ich zahle %d €", *state.LastCounterOffer), nil)
	require.NoError(t, err)
	require.True(t, state.DealAvailable)

	return state
}

func TestConfirmFixesDeal(t *testing.T) {
	e := fallbackEngine(1)
	state := dealReadyState(t, e)
	agreed := *state.LastCounterOffer

	result, err := e.Confirm(state)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, state.Closed)
	assert.Equal(t, entity.OutcomeDeal, state.Outcome)
	require.NotNil(t, state.FinalPrice)
	assert.Equal(t, agreed, *state.FinalPrice)

	assert.Equal(t, entity.OutcomeDeal, result.Outcome)
	assert.Equal(t, entity.EndedByUser, result.EndedBy)
	assert.Equal(t, ViaConfirm, result.EndedVia)
	require.NotNil(t, result.FinalPrice)
	assert.Equal(t, agreed, *result.FinalPrice)
	assert.Equal(t, "control", result.VariantTag)
}

func TestConfirmIdempotent(t *testing.T) {
	e := fallbackEngine(1)
	state := dealReadyState(t, e)

	first, err := e.Confirm(state)
	require.NoError(t, err)
	require.NotNil(t, first)

	snapshot := *state

	second, err := e.Confirm(state)
	require.NoError(t, err)
	assert.Nil(t, second, "повторное подтверждение не порождает вторую запись")
	assert.Equal(t, snapshot, *state, "состояние закрытой сессии не меняется")
}

func TestConfirmWithoutDealAvailable(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())

	_, err := e.Turn(context.Background(), state, "Ich biete dir 650 €", nil)
	require.NoError(t, err)
	require.False(t, state.DealAvailable)

	result, err := e.Confirm(state)
	require.Error(t, err)
	assert.Nil(t, result)

	code, ok := domain.GetCode(err)
	require.True(t, ok)
	assert.Equal(t, errcodes.NoDealAvailable, code)
	assert.False(t, state.Closed)
}

func TestAbortByUser(t *testing.T) {
	e := fallbackEngine(1)
	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())

	_, err := e.Turn(context.Background(), state, "Ich biete dir 650 €", nil)
	require.NoError(t, err)

	result := e.AbortByUser(state)
	require.NotNil(t, result)

	assert.True(t, state.Closed)
	assert.Equal(t, entity.OutcomeAborted, state.Outcome)
	assert.Equal(t, entity.EndedByUser, result.EndedBy)
	assert.Equal(t, ViaUserAbort, result.EndedVia)
	assert.Nil(t, result.FinalPrice)

	// Идемпотентность: второй abort — no-op.
	assert.Nil(t, e.AbortByUser(state))
}

func TestAbortAfterDealAvailableDropsDeal(t *testing.T) {
	e := fallbackEngine(1)
	state := dealReadyState(t, e)

	result := e.AbortByUser(state)
	require.NotNil(t, result)

	assert.Equal(t, entity.OutcomeAborted, state.Outcome)
	assert.False(t, state.DealAvailable)
	assert.Nil(t, state.AvailableDealPrice())
	assert.Nil(t, result.FinalPrice)
}
