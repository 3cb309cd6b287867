// Package cache é um armazenamento chave/valor com expiração por entrada.
//
// A expiração é verificada apenas no acesso (eviction preguiçosa); não há
// limite de tamanho.
package cache

import (
	"sort"
	"sync"
	"time"
)

const DefaultTTL = time.Hour

type entry struct {
	value     any
	expiresAt time.Time
}

// Stats lista as chaves presentes, inclusive as já expiradas ainda não acessadas.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

type Manager struct {
	mu         sync.Mutex
	entries    map[string]entry
	now        func() time.Time
	defaultTTL time.Duration
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

func New(opts ...Option) *Manager {
	m := &Manager{
		entries:    make(map[string]entry),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Set grava value com expiresAt = agora + ttl. ttl <= 0 usa o TTL padrão.
func (m *Manager) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Manager) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (m *Manager) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.lookup(key)
	return ok
}

// lookup remove a entrada se já expirou. Chamar com mu travado.
func (m *Manager) lookup(key string) (entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return entry{}, false
	}
	if e.expiresAt.Before(m.now()) {
		delete(m.entries, key)
		return entry{}, false
	}
	return e, true
}

func (m *Manager) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.entries[key]
	delete(m.entries, key)
	return ok
}

func (m *Manager) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]entry)
	m.mu.Unlock()
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Stats{Size: len(keys), Keys: keys}
}

// GetAs é um atalho tipado para Get.
func GetAs[T any](m *Manager, key string) (T, bool) {
	var zero T
	v, ok := m.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
