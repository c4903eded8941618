package session

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"verhandlungsbot/internal/domain"
	"verhandlungsbot/pkg/errcodes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const redisKeyPrefix = "negotiation:session:"

// RedisStore хранилище сессий в Redis для многоинстансных стендов.
// Сериализация — JSON; ключ живёт TTL с момента последнего Save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "marshal session")
	}

	ok, err := s.client.SetNX(ctx, redisKeyPrefix+sess.State.ConversationID, payload, s.ttl).Result()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "create session")
	}
	if !ok {
		return domain.NewError(errcodes.InternalServerError, "session already exists")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (*Session, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+conversationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewError(errcodes.NegotiationNotFound, "negotiation not found")
	}
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "get session")
	}

	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "unmarshal session")
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "marshal session")
	}

	if err := s.client.Set(ctx, redisKeyPrefix+sess.State.ConversationID, payload, s.ttl).Err(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "save session")
	}
	return nil
}
