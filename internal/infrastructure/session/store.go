// Package session хранит живые сессии переговоров. Хранилище эфемерное:
// завершённые сессии уходят в стоки результатов, здесь они доживают TTL.
package session

import (
	"context"
	"sync"

	"verhandlungsbot/internal/domain/entity"
)

// Session состояние и переписка одной сессии. Messages append-only,
// порядок совпадает с Seq.
type Session struct {
	State    *entity.NegotiationState `json:"state"`
	Messages []entity.Message         `json:"messages"`
}

// Store контракт хранилища сессий. Get на неизвестном id возвращает
// ошибку с кодом NegotiationNotFound.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, conversationID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// Locker сериализует ходы внутри одной сессии: движок мутирует состояние
// без собственных блокировок, поэтому обработчик обязан держать ключ
// на всё время хода.
type Locker struct {
	mu sync.Map // conversationID -> *sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{}
}

func (l *Locker) Lock(conversationID string) func() {
	actual, _ := l.mu.LoadOrStore(conversationID, &sync.Mutex{})
	m := actual.(*sync.Mutex) //nolint:forcetypeassert
	m.Lock()
	return m.Unlock
}
