// Package session holds the single mocked sign-in session.
//
// Nothing here verifies credentials. The manager only holds and persists
// whatever session the sign-in and sign-up stubs produce.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/kv"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// signInUserID is the fixed id of every mocked sign-in.
const signInUserID int64 = 1

type Manager struct {
	mu      sync.RWMutex
	current *domain.UserSession
	lastID  int64
	store   kv.Store
	logger  *zap.Logger
	now     func() time.Time
	sfg     singleflight.Group
}

type Option func(*Manager)

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store kv.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the persisted session. Missing or corrupt records leave the
// manager signed out.
func (m *Manager) Init(ctx context.Context) {
	v, _, _ := m.sfg.Do(kv.SessionKey, func() (interface{}, error) {
		return m.load(ctx), nil
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = v.(*domain.UserSession)
}

func (m *Manager) load(ctx context.Context) *domain.UserSession {
	raw, err := m.store.Get(ctx, kv.SessionKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		m.logger.Warn("session load failed, continuing as guest", zap.Error(err))
		return nil
	}

	var s domain.UserSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		m.logger.Warn("session record is corrupt, continuing as guest", zap.Error(err))
		return nil
	}
	if s.Addresses == nil {
		s.Addresses = []json.RawMessage{}
	}
	if s.Orders == nil {
		s.Orders = []json.RawMessage{}
	}
	return &s
}

// SignIn always succeeds. The display name is the local part of email.
// The only error is ctx being done before the call.
func (m *Manager) SignIn(ctx context.Context, email, password string) (domain.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserSession{}, err
	}

	s := domain.NewUserSession(signInUserID, localPart(email), email)
	m.replace(ctx, s)
	m.logger.Info("signed in", zap.Int64("user_id", s.ID))
	return s, nil
}

// SignUp always succeeds with a fresh time-based id.
func (m *Manager) SignUp(ctx context.Context, name, email, password string) (domain.UserSession, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserSession{}, err
	}

	m.mu.Lock()
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	m.mu.Unlock()

	s := domain.NewUserSession(id, name, email)
	m.replace(ctx, s)
	m.logger.Info("signed up", zap.Int64("user_id", s.ID))
	return s, nil
}

func (m *Manager) replace(ctx context.Context, s domain.UserSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &s

	if err := m.persist(ctx, s); err != nil {
		m.logger.Warn("session persist failed, continuing in memory", zap.Error(err))
	}
}

func (m *Manager) persist(ctx context.Context, s domain.UserSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	return m.store.Set(ctx, kv.SessionKey, string(data))
}

// Close writes the signed-in session one last time. A guest has nothing
// to flush.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	if err := m.persist(ctx, *m.current); err != nil {
		return fmt.Errorf("flush session: %w", err)
	}
	return nil
}

// SignOut drops the session and deletes the persisted record.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil

	if err := m.store.Delete(ctx, kv.SessionKey); err != nil {
		m.logger.Warn("session delete failed", zap.Error(err))
	}
}

func (m *Manager) Current() (domain.UserSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return domain.UserSession{}, false
	}
	return *m.current, true
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

func localPart(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
