package redis

import (
	"context"
	"time"

	"lcflow/internal/domain/session"

	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "lcflow:session:"

var _ session.Repository = (*SessionRepository)(nil)

// SessionRepository keeps one hash per session and refreshes its TTL on write.
type SessionRepository struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *goredis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func key(id string) string { return sessionKeyPrefix + id }

func (r *SessionRepository) Get(ctx context.Context, id string) (session.Session, error) {
	h, err := r.rdb.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return session.Session{}, err
	}
	s := session.New(id)
	if v, ok := h[session.FieldCurrentUser]; ok {
		s.CurrentUser = v
	}
	if v, ok := h[session.FieldUserRole]; ok && session.Role(v).Valid() {
		s.UserRole = session.Role(v)
	}
	return s, nil
}

func (r *SessionRepository) SetField(ctx context.Context, id, field, value string) error {
	k := key(id)
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, k, field, value)
		if r.ttl > 0 {
			p.Expire(ctx, k, r.ttl)
		}
		return nil
	})
	return err
}
