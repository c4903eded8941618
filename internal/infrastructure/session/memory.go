package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/pkg/errcodes"
)

// MemoryStore хранилище сессий в памяти процесса поверх go-cache.
// Подходит для одного инстанса; TTL подчищает брошенные сессии.
type MemoryStore struct {
	c *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		c: cache.New(ttl, ttl/2),
	}
}

func (s *MemoryStore) Create(_ context.Context, sess *Session) error {
	if err := s.c.Add(sess.State.ConversationID, sess, cache.DefaultExpiration); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "session already exists")
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, conversationID string) (*Session, error) {
	v, ok := s.c.Get(conversationID)
	if !ok {
		return nil, domain.NewError(errcodes.NegotiationNotFound, "negotiation not found")
	}
	return v.(*Session), nil //nolint:forcetypeassert
}

// Save продлевает TTL; сама сессия мутируется по указателю под ключом Locker.
func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.c.Set(sess.State.ConversationID, sess, cache.DefaultExpiration)
	return nil
}
