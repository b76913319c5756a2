package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/kv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingSetStore struct {
	kv.Store
}

func (failingSetStore) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func setupManager(t *testing.T, store kv.Store, now time.Time) (*Manager, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewManager(store,
		WithLogger(zap.New(core)),
		WithClock(func() time.Time { return now }),
	)
	m.Init(context.Background())
	return m, logs
}

func TestSignIn_UsesEmailLocalPart(t *testing.T) {
	store := kv.NewMemoryStore()
	m, _ := setupManager(t, store, time.Now())

	s, err := m.SignIn(context.Background(), "demo@amazon.com", "x")
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, "demo@amazon.com", s.Email)
	assert.Equal(t, int64(1), s.ID)
	assert.True(t, s.IsSignedIn)
	assert.True(t, m.IsAuthenticated())

	raw, err := store.Get(context.Background(), kv.SessionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"demo","email":"demo@amazon.com","isSignedIn":true,"addresses":[],"orders":[]}`, raw)
}

func TestSignIn_EmailWithoutAt(t *testing.T) {
	m, _ := setupManager(t, kv.NewMemoryStore(), time.Now())

	s, err := m.SignIn(context.Background(), "demo", "x")
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
}

func TestSignOut_RemovesPersistedRecord(t *testing.T) {
	store := kv.NewMemoryStore()
	m, _ := setupManager(t, store, time.Now())
	ctx := context.Background()

	_, err := m.SignIn(ctx, "demo@amazon.com", "x")
	require.NoError(t, err)

	m.SignOut(ctx)

	assert.False(t, m.IsAuthenticated())
	_, ok := m.Current()
	assert.False(t, ok)
	_, err = store.Get(ctx, kv.SessionKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestSignUp_ReplacesPreviousSession(t *testing.T) {
	store := kv.NewMemoryStore()
	now := time.UnixMilli(1_700_000_000_000)
	m, _ := setupManager(t, store, now)
	ctx := context.Background()

	first, err := m.SignUp(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	second, err := m.SignUp(ctx, "Bob", "bob@example.com", "secret2")
	require.NoError(t, err)

	assert.Equal(t, int64(1_700_000_000_000), first.ID)
	assert.Greater(t, second.ID, first.ID, "ids stay unique within the same millisecond")

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "Bob", current.Name)
	assert.Equal(t, "bob@example.com", current.Email)

	raw, err := store.Get(ctx, kv.SessionKey)
	require.NoError(t, err)
	var saved domain.UserSession
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	assert.Equal(t, second.ID, saved.ID)
	assert.Equal(t, 1, store.Len())
}

func TestSignIn_ReplacesSignedUpSession(t *testing.T) {
	m, _ := setupManager(t, kv.NewMemoryStore(), time.Now())
	ctx := context.Background()

	_, err := m.SignUp(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	_, err = m.SignIn(ctx, "bob@example.com", "x")
	require.NoError(t, err)

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "bob", current.Name)
}

func TestSignIn_CanceledContext(t *testing.T) {
	m, _ := setupManager(t, kv.NewMemoryStore(), time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.SignIn(ctx, "demo@amazon.com", "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.IsAuthenticated())
}

func TestInit_RestoresSession(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, kv.SessionKey,
		`{"id":42,"name":"demo","email":"demo@amazon.com","isSignedIn":true,"addresses":[{"city":"Oslo"}]}`))

	m, _ := setupManager(t, store, time.Now())

	s, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, int64(42), s.ID)
	require.Len(t, s.Addresses, 1)
	assert.JSONEq(t, `{"city":"Oslo"}`, string(s.Addresses[0]))
	assert.NotNil(t, s.Orders)
}

func TestInit_CorruptRecord_FailsOpen(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), kv.SessionKey, "not json"))

	m, logs := setupManager(t, store, time.Now())

	assert.False(t, m.IsAuthenticated())
	assert.Equal(t, 1, logs.FilterMessage("session record is corrupt, continuing as guest").Len())
}

func TestInit_Missing_IsGuest(t *testing.T) {
	m, logs := setupManager(t, kv.NewMemoryStore(), time.Now())

	assert.False(t, m.IsAuthenticated())
	assert.Zero(t, logs.Len())
}

func TestSignIn_WriteFailure_StillSignedIn(t *testing.T) {
	m, logs := setupManager(t, failingSetStore{Store: kv.NewMemoryStore()}, time.Now())

	_, err := m.SignIn(context.Background(), "demo@amazon.com", "x")
	require.NoError(t, err)

	assert.True(t, m.IsAuthenticated())
	assert.Equal(t, 1, logs.FilterMessage("session persist failed, continuing in memory").Len())
}

func TestManager_WithRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := kv.NewRedisStore(client, "storefront:", 0)
	ctx := context.Background()

	m, _ := setupManager(t, store, time.Now())
	_, err := m.SignIn(ctx, "demo@amazon.com", "x")
	require.NoError(t, err)
	assert.True(t, mr.Exists("storefront:"+kv.SessionKey))

	restored, _ := setupManager(t, store, time.Now())
	s, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, "demo", s.Name)

	restored.SignOut(ctx)
	assert.False(t, mr.Exists("storefront:"+kv.SessionKey))
}

func TestClose_FlushesSignedInSession(t *testing.T) {
	store := kv.NewMemoryStore()
	m, _ := setupManager(t, store, time.Now())
	ctx := context.Background()

	_, err := m.SignIn(ctx, "demo@amazon.com", "x")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, kv.SessionKey))

	require.NoError(t, m.Close(ctx))

	raw, err := store.Get(ctx, kv.SessionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"demo","email":"demo@amazon.com","isSignedIn":true,"addresses":[],"orders":[]}`, raw)
}

func TestClose_Guest(t *testing.T) {
	store := kv.NewMemoryStore()
	m, _ := setupManager(t, store, time.Now())

	require.NoError(t, m.Close(context.Background()))
	assert.Equal(t, 0, store.Len())
}

func TestClose_ReturnsFlushError(t *testing.T) {
	m, _ := setupManager(t, failingSetStore{Store: kv.NewMemoryStore()}, time.Now())
	_, err := m.SignIn(context.Background(), "demo@amazon.com", "x")
	require.NoError(t, err)

	err = m.Close(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
}
