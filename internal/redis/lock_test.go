package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (Locker, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSlotLocker(client, 5*time.Second), client
}

func TestWithSlotLockRunsCriticalSection(t *testing.T) {
	locker, _ := newTestLocker(t)

	ran := false
	err := locker.WithSlotLock(context.Background(), uuid.New(), time.Now(), func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWithSlotLockReleasesKeyAfterRun(t *testing.T) {
	locker, client := newTestLocker(t)

	businessID := uuid.New()
	at := time.Now()

	err := locker.WithSlotLock(context.Background(), businessID, at, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)

	exists, err := client.Exists(context.Background(), SlotLockKey(businessID, at)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "lock key should be deleted after the critical section")
}

func TestWithSlotLockRejectsConcurrentHolder(t *testing.T) {
	locker, _ := newTestLocker(t)

	businessID := uuid.New()
	at := time.Now()

	err := locker.WithSlotLock(context.Background(), businessID, at, func(ctx context.Context) error {
		// Second acquisition for the same slot must fail while we hold the lock.
		inner := locker.WithSlotLock(ctx, businessID, at, func(ctx context.Context) error {
			t.Fatal("second critical section must not run")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})
	require.NoError(t, err)
}

func TestWithSlotLockDistinctSlotsDoNotContend(t *testing.T) {
	locker, _ := newTestLocker(t)

	businessID := uuid.New()
	at := time.Now()

	err := locker.WithSlotLock(context.Background(), businessID, at, func(ctx context.Context) error {
		// A different time for the same business is a different slot.
		return locker.WithSlotLock(ctx, businessID, at.Add(30*time.Minute), func(ctx context.Context) error {
			return nil
		})
	})
	require.NoError(t, err)
}

func TestSlotLockKeyTruncatesToSeconds(t *testing.T) {
	businessID := uuid.New()
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t,
		SlotLockKey(businessID, at),
		SlotLockKey(businessID, at.Add(500*time.Millisecond)),
	)
}
