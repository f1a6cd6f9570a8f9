package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
)

const (
	defaultIdleTimeout = 30 * time.Minute
	minSweepInterval   = time.Second
)

// SessionManagerOptions configures every store the manager creates.
type SessionManagerOptions struct {
	Latency time.Duration
	Logger  zerolog.Logger
	// IdleTimeout drops authenticated stores from memory once they have not
	// been opened for this long. Their persisted keys are untouched. Zero
	// uses 30 minutes.
	IdleTimeout time.Duration
	// OnIdleEvict receives the live count after a sweep dropped stores.
	OnIdleEvict func(active int)
	// Publisher receives every session change, typically for auditing.
	Publisher ports.ChangePublisher
	// Observers run synchronously on every session change.
	Observers []func(domain.SessionChange)
}

// SessionManager keeps one SessionStore per client session id. Only
// authenticated stores are kept in memory; anonymous sessions are rebuilt
// from storage on every Open. A live store is checked against storage each
// time it is opened, so a logout or expiry committed elsewhere is observed.
type SessionManager struct {
	provider  ports.SessionStorageProvider
	auth      ports.Authenticator
	tokens    ports.TokenIssuer
	latency   time.Duration
	log       zerolog.Logger
	publisher ports.ChangePublisher
	observers []func(domain.SessionChange)

	idle        time.Duration
	onIdleEvict func(int)
	now         func() time.Time

	mu        sync.Mutex
	stores    map[string]*liveSession
	lastSweep time.Time

	watchMu  sync.Mutex
	watchers map[string]map[int]func(domain.SessionChange)
	nextWID  int
}

func NewSessionManager(provider ports.SessionStorageProvider, auth ports.Authenticator, tokens ports.TokenIssuer, opts SessionManagerOptions) *SessionManager {
	idle := opts.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	now := time.Now
	return &SessionManager{
		provider:    provider,
		auth:        auth,
		tokens:      tokens,
		latency:     opts.Latency,
		log:         opts.Logger,
		publisher:   opts.Publisher,
		observers:   opts.Observers,
		idle:        idle,
		onIdleEvict: opts.OnIdleEvict,
		now:         now,
		stores:      make(map[string]*liveSession),
		lastSweep:   now(),
		watchers:    make(map[string]map[int]func(domain.SessionChange)),
	}
}

type liveSession struct {
	store *SessionStore
	seen  time.Time
}

// Open returns the store of sessionID, rehydrating it from storage when it
// is not live. An empty sessionID gets a freshly generated one; callers read
// it back through SessionStore.ID. A storage error is returned together with
// a usable, unauthenticated store.
func (m *SessionManager) Open(ctx context.Context, sessionID string) (*SessionStore, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	m.sweep()

	if st := m.live(sessionID); st != nil {
		err := st.Refresh(ctx)
		if err == nil {
			return st, nil
		}
		m.log.Error().Err(err).Str("session_id", sessionID).Msg("session refresh failed")
		m.evict(sessionID, st)
	}

	st := m.build(sessionID)
	err := st.Rehydrate(ctx)
	if err != nil {
		m.log.Error().Err(err).Str("session_id", sessionID).Msg("session rehydration failed")
	}
	if st.State() == domain.StateAuthenticated {
		if existing := m.adoptIfAbsent(sessionID, st); existing != st {
			return existing, err
		}
	}
	return st, err
}

// Active reports how many authenticated sessions are live.
func (m *SessionManager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

// Rotate runs fn against a store under a freshly generated session id while
// holding the in-flight guard of old. When fn succeeds and old was
// authenticated, old is logged out so its id stops granting access.
func (m *SessionManager) Rotate(ctx context.Context, old *SessionStore, fn func(context.Context, *SessionStore) (*domain.Identity, error)) (*SessionStore, *domain.Identity, error) {
	release, err := old.claim()
	if err != nil {
		return nil, nil, err
	}
	defer release()

	// A generated id has nothing persisted, so the store skips rehydration.
	fresh := m.build(uuid.NewString())
	identity, err := fn(ctx, fresh)
	if err != nil {
		return nil, nil, err
	}

	if old.State() == domain.StateAuthenticated {
		if err := old.Logout(context.WithoutCancel(ctx)); err != nil {
			m.log.Warn().Err(err).Str("session_id", old.ID()).Msg("failed to retire rotated session")
		}
	}
	return fresh, identity, nil
}

func (m *SessionManager) live(sessionID string) *SessionStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls, ok := m.stores[sessionID]
	if !ok {
		return nil
	}
	ls.seen = m.now()
	return ls.store
}

// sweep drops stores idle for longer than the idle timeout. It runs at most
// once per half timeout.
func (m *SessionManager) sweep() {
	interval := max(m.idle/2, minSweepInterval)

	m.mu.Lock()
	now := m.now()
	if now.Sub(m.lastSweep) < interval {
		m.mu.Unlock()
		return
	}
	m.lastSweep = now
	evicted := 0
	for id, ls := range m.stores {
		if now.Sub(ls.seen) > m.idle {
			delete(m.stores, id)
			evicted++
		}
	}
	active := len(m.stores)
	m.mu.Unlock()

	if evicted > 0 {
		m.log.Debug().Int("evicted", evicted).Int("active", active).Msg("idle sessions released")
		if m.onIdleEvict != nil {
			m.onIdleEvict(active)
		}
	}
}

func (m *SessionManager) build(sessionID string) *SessionStore {
	st := NewSessionStore(m.provider.ForSession(sessionID), m.auth, m.tokens, SessionStoreOptions{
		SessionID: sessionID,
		Latency:   m.latency,
		Logger:    m.log,
	})

	st.Subscribe(func(c domain.SessionChange) {
		switch c.Kind {
		case domain.ChangeLogin, domain.ChangeRegister:
			m.adopt(sessionID, st)
		case domain.ChangeLogout, domain.ChangeSessionCorrupt:
			m.evict(sessionID, st)
		case domain.ChangeRehydrated:
		}

		m.dispatchWatchers(c)
		for _, observe := range m.observers {
			observe(c)
		}
		if m.publisher != nil {
			m.publisher.Publish(c)
		}
	})
	return st
}

func (m *SessionManager) adopt(sessionID string, st *SessionStore) {
	m.mu.Lock()
	m.stores[sessionID] = &liveSession{store: st, seen: m.now()}
	m.mu.Unlock()
}

func (m *SessionManager) adoptIfAbsent(sessionID string, st *SessionStore) *SessionStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[sessionID]; ok {
		existing.seen = m.now()
		return existing.store
	}
	m.stores[sessionID] = &liveSession{store: st, seen: m.now()}
	return st
}

func (m *SessionManager) evict(sessionID string, st *SessionStore) {
	m.mu.Lock()
	if ls, ok := m.stores[sessionID]; ok && ls.store == st {
		delete(m.stores, sessionID)
	}
	m.mu.Unlock()
}

// Watch registers fn for every change of sessionID, whichever store
// instance commits it. The returned function cancels the watch.
func (m *SessionManager) Watch(sessionID string, fn func(domain.SessionChange)) func() {
	m.watchMu.Lock()
	id := m.nextWID
	m.nextWID++
	if m.watchers[sessionID] == nil {
		m.watchers[sessionID] = make(map[int]func(domain.SessionChange))
	}
	m.watchers[sessionID][id] = fn
	m.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.watchMu.Lock()
			delete(m.watchers[sessionID], id)
			if len(m.watchers[sessionID]) == 0 {
				delete(m.watchers, sessionID)
			}
			m.watchMu.Unlock()
		})
	}
}

func (m *SessionManager) dispatchWatchers(c domain.SessionChange) {
	m.watchMu.Lock()
	fns := make([]func(domain.SessionChange), 0, len(m.watchers[c.SessionID]))
	for _, fn := range m.watchers[c.SessionID] {
		fns = append(fns, fn)
	}
	m.watchMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
