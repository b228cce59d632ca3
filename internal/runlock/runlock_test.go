package runlock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ganot/activitylog/internal/domain/segment"
	"github.com/ganot/activitylog/internal/runlock"
)

var (
	_ segment.Locker = (*runlock.Redis)(nil)
	_ segment.Locker = (*runlock.Local)(nil)
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := runlock.NewRedisClient("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedis_ExclusiveUntilReleased(t *testing.T) {
	_, client := newRedis(t)
	ctx := context.Background()

	a := runlock.NewRedis(client, "materialize", time.Minute)
	b := runlock.NewRedis(client, "materialize", time.Minute)

	unlock, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, unlock(ctx))

	unlockB, ok, err := b.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, unlockB(ctx))
}

func TestRedis_ExpiredLeaseIsNotReleasedByOldOwner(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := runlock.NewRedis(client, "materialize", time.Second)
	b := runlock.NewRedis(client, "materialize", time.Second)

	unlockA, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, unlockA(ctx), runlock.ErrNotHeld)
	require.True(t, mr.Exists("materialize"))
}

func TestRedis_Unreachable(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	_, ok, err := runlock.NewRedis(client, "materialize", time.Minute).TryLock(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := runlock.NewRedisClient("not a url")
	require.Error(t, err)
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	l := runlock.NewLocal()

	unlock, ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryLock(ctx)
	require.False(t, ok)

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx))

	_, ok, _ = l.TryLock(ctx)
	require.True(t, ok)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	local, closeLocal, err := runlock.Open("", "k", time.Minute)
	require.NoError(t, err)
	require.IsType(t, &runlock.Local{}, local)
	require.NoError(t, closeLocal())

	mr := miniredis.RunT(t)
	remote, closeRemote, err := runlock.Open("redis://"+mr.Addr(), "activitylog:test", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeRemote() })
	require.IsType(t, &runlock.Redis{}, remote)

	unlock, ok, err := remote.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mr.Exists("activitylog:test"))
	require.NoError(t, unlock(ctx))

	_, _, err = runlock.Open("redis://127.0.0.1:1", "k", time.Minute)
	require.Error(t, err)
}
