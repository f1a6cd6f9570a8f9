// Package storage holds process-local implementations of the storage ports,
// used for single-instance deployments and tests.
package storage

import (
	"context"
	"sync"
	"time"

	"github.com/spabook/portal/internal/core/ports"
)

// Memory is a KeyValueStore backed by a map.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) SetMany(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// MemoryProvider keeps every session's keys in one process-wide map.
// Sessions whose keys are all deleted are dropped, and a session expires ttl
// after its last write, matching the Redis provider.
type MemoryProvider struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	sessions  map[string]*memoryEntry
	lastPrune time.Time
}

type memoryEntry struct {
	values  map[string]string
	expires time.Time
}

// NewMemoryProvider returns a provider whose sessions expire ttl after their
// last write (0 keeps them until deleted).
func NewMemoryProvider(ttl time.Duration) *MemoryProvider {
	return &MemoryProvider{ttl: ttl, now: time.Now, sessions: make(map[string]*memoryEntry)}
}

func (p *MemoryProvider) ForSession(sessionID string) ports.KeyValueStore {
	return &memorySession{p: p, id: sessionID}
}

// Sessions reports how many unexpired sessions hold at least one key.
func (p *MemoryProvider) Sessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prune(p.now())
	return len(p.sessions)
}

// entry returns the live entry of id, dropping it when expired. p.mu must
// be held.
func (p *MemoryProvider) entry(id string, now time.Time) *memoryEntry {
	e, ok := p.sessions[id]
	if !ok {
		return nil
	}
	if p.ttl > 0 && !now.Before(e.expires) {
		delete(p.sessions, id)
		return nil
	}
	return e
}

// prune drops expired sessions, at most once per ttl. p.mu must be held.
func (p *MemoryProvider) prune(now time.Time) {
	if p.ttl <= 0 || now.Sub(p.lastPrune) < p.ttl {
		return
	}
	p.lastPrune = now
	for id, e := range p.sessions {
		if !now.Before(e.expires) {
			delete(p.sessions, id)
		}
	}
}

type memorySession struct {
	p  *MemoryProvider
	id string
}

func (s *memorySession) Get(_ context.Context, key string) (string, bool, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	e := s.p.entry(s.id, s.p.now())
	if e == nil {
		return "", false, nil
	}
	v, ok := e.values[key]
	return v, ok, nil
}

func (s *memorySession) SetMany(_ context.Context, values map[string]string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	now := s.p.now()
	s.p.prune(now)

	e := s.p.entry(s.id, now)
	if e == nil {
		e = &memoryEntry{values: make(map[string]string, len(values))}
		s.p.sessions[s.id] = e
	}
	for k, v := range values {
		e.values[k] = v
	}
	e.expires = now.Add(s.p.ttl)
	return nil
}

func (s *memorySession) Delete(_ context.Context, keys ...string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	e := s.p.entry(s.id, s.p.now())
	if e == nil {
		return nil
	}
	for _, k := range keys {
		delete(e.values, k)
	}
	if len(e.values) == 0 {
		delete(s.p.sessions, s.id)
	}
	return nil
}

// MemoryGuard is an in-process SubmitGuard.
type MemoryGuard struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{held: make(map[string]time.Time), now: time.Now}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if exp, ok := g.held[key]; ok && now.Before(exp) {
		return false, nil
	}
	g.held[key] = now.Add(ttl)
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.held, key)
	g.mu.Unlock()
	return nil
}
