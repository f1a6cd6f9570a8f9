package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
)

// SessionStoreOptions tunes a SessionStore.
type SessionStoreOptions struct {
	// SessionID is stamped on every SessionChange.
	SessionID string
	// Latency is waited before each login or register resolves.
	Latency time.Duration
	Logger  zerolog.Logger
}

// SessionStore owns "who is logged in" for one client session.
//
// It starts in StateLoading. Rehydrate moves it to StateAuthenticated or
// StateUnauthenticated; Login and Register move it to StateAuthenticated;
// Logout moves it to StateUnauthenticated. Every committed transition is
// delivered to subscribers.
type SessionStore struct {
	storage ports.KeyValueStore
	auth    ports.Authenticator
	tokens  ports.TokenIssuer
	id      string
	latency time.Duration
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	state    domain.SessionState
	identity *domain.Identity
	token    string

	// inFlight holds while a login or register is pending.
	inFlight atomic.Bool

	subMu   sync.Mutex
	subs    map[int]func(domain.SessionChange)
	nextSub int
}

func NewSessionStore(storage ports.KeyValueStore, auth ports.Authenticator, tokens ports.TokenIssuer, opts SessionStoreOptions) *SessionStore {
	return &SessionStore{
		storage: storage,
		auth:    auth,
		tokens:  tokens,
		id:      opts.SessionID,
		latency: opts.Latency,
		log:     opts.Logger,
		now:     time.Now,
		state:   domain.StateLoading,
		subs:    make(map[int]func(domain.SessionChange)),
	}
}

// Rehydrate restores a previously persisted identity. It only acts while the
// store is loading. Corrupt or half-written data is cleared and the store
// becomes unauthenticated; the returned error is reserved for storage
// failures, after which the store is also unauthenticated.
func (s *SessionStore) Rehydrate(ctx context.Context) error {
	if s.State() != domain.StateLoading {
		return nil
	}

	identity, token, err := s.readPersisted(ctx)
	switch {
	case err == nil && identity != nil:
		s.commit(domain.ChangeRehydrated, domain.StateAuthenticated, identity, token)
		return nil
	case errors.Is(err, domain.ErrSessionCorrupt):
		s.log.Warn().Err(err).Str("session_id", s.id).Msg("discarding corrupt session")
		if delErr := s.storage.Delete(ctx, domain.StorageKeyUser, domain.StorageKeyToken); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", s.id).Msg("failed to clear corrupt session")
		}
		s.commit(domain.ChangeSessionCorrupt, domain.StateUnauthenticated, nil, "")
		return nil
	case err != nil:
		s.commit(domain.ChangeRehydrated, domain.StateUnauthenticated, nil, "")
		return fmt.Errorf("rehydrate session: %w", err)
	default:
		s.commit(domain.ChangeRehydrated, domain.StateUnauthenticated, nil, "")
		return nil
	}
}

// Refresh re-reads the persisted session of an authenticated store. Keys
// removed elsewhere log the store out; data that no longer verifies, such as
// an expired token, is cleared. A storage error leaves the store as it was.
func (s *SessionStore) Refresh(ctx context.Context) error {
	if s.State() != domain.StateAuthenticated || s.inFlight.Load() {
		return nil
	}

	identity, token, err := s.readPersisted(ctx)
	switch {
	case errors.Is(err, domain.ErrSessionCorrupt):
		s.log.Info().Err(err).Str("session_id", s.id).Msg("persisted session no longer valid")
		if delErr := s.storage.Delete(ctx, domain.StorageKeyUser, domain.StorageKeyToken); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", s.id).Msg("failed to clear invalid session")
		}
		s.commit(domain.ChangeSessionCorrupt, domain.StateUnauthenticated, nil, "")
		return nil
	case err != nil:
		return fmt.Errorf("refresh session: %w", err)
	case identity == nil:
		s.commit(domain.ChangeLogout, domain.StateUnauthenticated, nil, "")
		return nil
	case !s.holds(identity, token):
		s.commit(domain.ChangeRehydrated, domain.StateAuthenticated, identity, token)
	}
	return nil
}

func (s *SessionStore) holds(identity *domain.Identity, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token == token && s.identity != nil &&
		s.identity.ID == identity.ID &&
		s.identity.Role == identity.Role &&
		slices.Equal(s.identity.Permissions, identity.Permissions)
}

// claim takes the in-flight guard. The returned release must be called.
func (s *SessionStore) claim() (func(), error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrOperationInFlight
	}
	return func() { s.inFlight.Store(false) }, nil
}

func (s *SessionStore) readPersisted(ctx context.Context) (*domain.Identity, string, error) {
	rawUser, hasUser, err := s.storage.Get(ctx, domain.StorageKeyUser)
	if err != nil {
		return nil, "", err
	}
	token, hasToken, err := s.storage.Get(ctx, domain.StorageKeyToken)
	if err != nil {
		return nil, "", err
	}

	if !hasUser && !hasToken {
		return nil, "", nil
	}
	if hasUser != hasToken {
		return nil, "", fmt.Errorf("%w: unpaired keys", domain.ErrSessionCorrupt)
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrSessionCorrupt, err)
	}
	if identity.ID == "" || !identity.Role.Valid() {
		return nil, "", fmt.Errorf("%w: invalid identity", domain.ErrSessionCorrupt)
	}
	if err := s.tokens.Verify(token); err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrSessionCorrupt, err)
	}
	return &identity, token, nil
}

// Login resolves credentials and makes the result the current identity,
// replacing any previous one. On failure the session is untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	return s.mutate(ctx, domain.ChangeLogin, func(ctx context.Context) (*domain.Identity, error) {
		return s.auth.Authenticate(ctx, email, password)
	})
}

// Register creates a customer identity and logs it in. On failure the
// session is untouched.
func (s *SessionStore) Register(ctx context.Context, in domain.Registration) (*domain.Identity, error) {
	return s.mutate(ctx, domain.ChangeRegister, func(ctx context.Context) (*domain.Identity, error) {
		return s.auth.Register(ctx, in)
	})
}

func (s *SessionStore) mutate(ctx context.Context, kind domain.ChangeKind, resolve func(context.Context) (*domain.Identity, error)) (*domain.Identity, error) {
	release, err := s.claim()
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	identity, err := resolve(ctx)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	raw, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("encode identity: %w", err)
	}

	// A caller that gave up must not see its session change afterwards.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.storage.SetMany(ctx, map[string]string{
		domain.StorageKeyUser:  string(raw),
		domain.StorageKeyToken: token,
	}); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.commit(kind, domain.StateAuthenticated, identity, token)
	return identity.Clone(), nil
}

func (s *SessionStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Logout clears the identity and both persisted keys. Calling it while
// logged out succeeds without notifying subscribers.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.storage.Delete(ctx, domain.StorageKeyUser, domain.StorageKeyToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	if s.State() == domain.StateUnauthenticated {
		return nil
	}
	s.commit(domain.ChangeLogout, domain.StateUnauthenticated, nil, "")
	return nil
}

// ID returns the session id the store was created for.
func (s *SessionStore) ID() string { return s.id }

// HasPermission evaluates capability against the current identity.
func (s *SessionStore) HasPermission(capability domain.Capability) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HasPermission(s.identity, capability)
}

func (s *SessionStore) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token returns the persisted auth token of the current identity.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionStore) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SessionSnapshot{State: s.state, Identity: s.identity.Clone()}
}

// Subscribe registers fn for every committed transition. The returned
// function removes the subscription and may be called more than once.
func (s *SessionStore) Subscribe(fn func(domain.SessionChange)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *SessionStore) commit(kind domain.ChangeKind, state domain.SessionState, identity *domain.Identity, token string) {
	s.mu.Lock()
	s.state = state
	s.identity = identity.Clone()
	s.token = token
	snap := domain.SessionSnapshot{State: s.state, Identity: s.identity.Clone()}
	s.mu.Unlock()

	s.log.Debug().
		Str("session_id", s.id).
		Str("kind", string(kind)).
		Str("state", string(state)).
		Msg("session transition")

	s.notify(domain.SessionChange{SessionID: s.id, Kind: kind, Snapshot: snap, At: s.now().UTC()})
}

func (s *SessionStore) notify(change domain.SessionChange) {
	s.subMu.Lock()
	listeners := make([]func(domain.SessionChange), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		c := change
		c.Snapshot.Identity = change.Snapshot.Identity.Clone()
		fn(c)
	}
}
