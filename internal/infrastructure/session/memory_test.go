package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/internal/domain/entity"
	"verhandlungsbot/internal/infrastructure/session"
	"verhandlungsbot/pkg/errcodes"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore(time.Minute)

	state := entity.NewNegotiationState("conv-1", "p-1", time.Now())
	sess := &session.Session{State: state}

	require.NoError(t, store.Create(ctx, sess))
	assert.Error(t, store.Create(ctx, sess), "повторное создание того же id")

	got, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.State.ParticipantID)

	got.State.Turn = 3
	require.NoError(t, store.Save(ctx, got))

	again, err := store.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 3, again.State.Turn)
}

func TestMemoryStoreNotFound(t *testing.T) {
	store := session.NewMemoryStore(time.Minute)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)

	code, ok := domain.GetCode(err)
	require.True(t, ok)
	assert.Equal(t, errcodes.NegotiationNotFound, code)
}

func TestLockerSerializesPerConversation(t *testing.T) {
	locker := session.NewLocker()

	var (
		wg      sync.WaitGroup
		counter int
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locker.Lock("conv-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}
