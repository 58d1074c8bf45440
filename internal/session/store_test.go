package session

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/barbershop-booking-site/internal/bookings"
	"github.com/wolfman30/barbershop-booking-site/internal/wizard"
)

func sampleData() *Data {
	st := wizard.New()
	st.Draft.ServiceID = "haircut"
	return &Data{
		Token:    "tok",
		Wizard:   &st,
		Bookings: []bookings.Booking{{ID: "b1", Status: bookings.StatusPending}},
		Flashes:  []Flash{{Kind: FlashSuccess, Message: "ok"}},
	}
}

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Put(ctx, "s1", sampleData(), time.Hour))
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	require.NotNil(t, got.Wizard)
	assert.Equal(t, "haircut", got.Wizard.Draft.ServiceID)
	require.Len(t, got.Bookings, 1)
	assert.Equal(t, "b1", got.Bookings[0].ID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.True(t, errors.Is(err, ErrNotFound))

	done, err := store.Provisioned(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	require.NoError(t, store.MarkProvisioned(ctx))
	done, err = store.Provisioned(ctx)
	require.NoError(t, err)
	assert.True(t, done)

	ok, err := store.TryLock(ctx, "submit:v", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.TryLock(ctx, "submit:v", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "lock must be exclusive")
	require.NoError(t, store.Unlock(ctx, "submit:v"))
	ok, err = store.TryLock(ctx, "submit:v", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", &Data{Token: "t"}, time.Minute))
	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, "s1")
	assert.True(t, errors.Is(err, ErrNotFound))

	ok, _ := store.TryLock(ctx, "k", time.Second)
	require.True(t, ok)
	now = now.Add(2 * time.Second)
	ok, _ = store.TryLock(ctx, "k", time.Second)
	assert.True(t, ok, "expired lock must be reacquirable")
}

func TestMemoryStore_PutCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	data := &Data{Token: "a"}
	require.NoError(t, store.Put(ctx, "s", data, 0))
	data.Token = "b"
	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Token)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	exerciseStore(t, NewRedisStore(client))
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", &Data{Token: "t"}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("session:s1"))
	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, "s1")
	assert.True(t, errors.Is(err, ErrNotFound))

	ok, err := store.TryLock(ctx, "submit:v", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	mr.FastForward(time.Minute)
	ok, err = store.TryLock(ctx, "submit:v", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := NewRedisStore(client).Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
