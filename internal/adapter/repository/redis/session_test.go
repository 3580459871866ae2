package redis

import (
	"context"
	"testing"
	"time"

	"lcflow/internal/domain/session"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T, ttl time.Duration) (*SessionRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionRepository(rdb, ttl), mr
}

func TestSessionRepository_DefaultWhenMissing(t *testing.T) {
	repo, _ := newRepo(t, time.Hour)
	s, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, "", s.CurrentUser)
	assert.Equal(t, session.RoleImporter, s.UserRole)
}

func TestSessionRepository_SetFieldAndTTL(t *testing.T) {
	repo, mr := newRepo(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.SetField(ctx, "sess-1", session.FieldCurrentUser, "alice"))
	require.NoError(t, repo.SetField(ctx, "sess-1", session.FieldUserRole, "ADMIN"))

	s, err := repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.CurrentUser)
	assert.Equal(t, session.RoleAdmin, s.UserRole)

	assert.Equal(t, time.Hour, mr.TTL("lcflow:session:sess-1"))
	mr.FastForward(2 * time.Hour)

	s, err = repo.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.RoleImporter, s.UserRole, "expired session falls back to defaults")
}

func TestSessionRepository_IgnoresCorruptRole(t *testing.T) {
	repo, mr := newRepo(t, 0)
	mr.HSet("lcflow:session:sess-1", session.FieldUserRole, "ROOT")

	s, err := repo.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.RoleImporter, s.UserRole)
	assert.Equal(t, time.Duration(0), mr.TTL("lcflow:session:sess-1"))
}

func TestSessionRepository_RedisDown(t *testing.T) {
	repo, mr := newRepo(t, time.Hour)
	mr.Close()
	_, err := repo.Get(context.Background(), "sess-1")
	assert.Error(t, err)
	assert.Error(t, repo.SetField(context.Background(), "sess-1", session.FieldCurrentUser, "x"))
}
