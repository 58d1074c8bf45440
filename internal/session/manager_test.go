package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	codec, err := NewCookieCodec(testSecret)
	require.NoError(t, err)
	store := NewMemoryStore()
	return NewManager(ManagerOptions{Store: store, Codec: codec, TTL: time.Hour}), store
}

func TestCookieCodec_RoundTrip(t *testing.T) {
	codec, err := NewCookieCodec(testSecret)
	require.NoError(t, err)

	value, err := codec.Encode("abc", time.Hour)
	require.NoError(t, err)
	id, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestCookieCodec_RejectsTamperingAndExpiry(t *testing.T) {
	codec, _ := NewCookieCodec(testSecret)
	other, _ := NewCookieCodec("ffffffffffffffffffffffffffffffff")

	value, _ := other.Encode("abc", time.Hour)
	_, err := codec.Decode(value)
	assert.Error(t, err)

	now := time.Now()
	codec.now = func() time.Time { return now }
	value, _ = codec.Encode("abc", time.Minute)
	codec.now = func() time.Time { return now.Add(time.Hour) }
	_, err = codec.Decode(value)
	assert.Error(t, err)
}

func TestNewCookieCodec_ShortSecret(t *testing.T) {
	_, err := NewCookieCodec("short")
	assert.Error(t, err)
}

func TestManager_LoadNewAndExisting(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := m.Load(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess.AddFlash(FlashInfo, "hello", "")
	require.NoError(t, m.Save(ctx, sess))
	cookie, err := m.Cookie(sess)
	require.NoError(t, err)
	assert.True(t, cookie.HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	again, err := m.Load(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, again.ID)
	flashes := again.PopFlashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, "hello", flashes[0].Message)
	assert.Empty(t, again.Flashes)
}

func TestManager_LoadIgnoresForgedCookie(t *testing.T) {
	m, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})

	sess, err := m.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "forged", sess.ID)
	assert.Equal(t, "", sess.Token)
}

func TestTokenStore(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()
	sess := &Session{ID: "s1", Data: &Data{}}
	tokens := m.Tokens(sess)

	require.NoError(t, tokens.Set(ctx, "tok"))
	stored, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", stored.Token)

	sess.BookingsFetchedAt = time.Now()
	require.NoError(t, tokens.Clear(ctx))
	got, _ := tokens.Get(ctx)
	assert.Empty(t, got)
	stored, _ = store.Get(ctx, "s1")
	assert.Empty(t, stored.Token)
	assert.True(t, stored.BookingsFetchedAt.IsZero())
}
