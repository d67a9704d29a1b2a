package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/baskoroadi/go-market-checkout/internal/redisx"
)

// SessionStore keeps authenticated identities in redis keyed by an opaque
// token. The token doubles as the cart scope for the session.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Start(ctx context.Context, ident Identity) (string, error) {
	token := uuid.NewString()
	key := fmt.Sprintf(redisx.KeySession, token)
	b, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, key, b, redisx.TTLSession).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Actor returns the identity behind a token, or ErrNoSession.
func (s *SessionStore) Actor(ctx context.Context, token string) (Identity, error) {
	key := fmt.Sprintf(redisx.KeySession, token)
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return Identity{}, ErrNoSession
	}
	if err != nil {
		return Identity{}, err
	}
	var ident Identity
	if err := json.Unmarshal(b, &ident); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

func (s *SessionStore) End(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(redisx.KeySession, token)).Err()
}
