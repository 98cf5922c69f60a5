// Package prefs persists the visitor's named string preferences.
package prefs

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Preference names.
const (
	KeyLang   = "lang"
	KeyFilter = "filter"
	KeyTab    = "activeTab"
	KeyTheme  = "theme"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("prefs: backend closed")

// Store is the capability the controller reads and writes preferences through.
// A missing value is reported as ok == false and must be treated as "use the
// default", never as an error.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string)
}

// Backend is a durable store keyed by visitor.
type Backend interface {
	Load(ctx context.Context, visitor string) (map[string]string, error)
	Save(ctx context.Context, visitor, name, value string) error
}

// Adapter binds a Backend to one visitor. Reads are served from a snapshot
// taken at bind time plus this adapter's own writes; writes go through to the
// backend. Backend failures are logged and never reach the caller.
type Adapter struct {
	ctx     context.Context
	backend Backend
	visitor string
	logger  *zap.Logger

	mu     sync.RWMutex
	values map[string]string
}

// Bind loads the visitor's preferences from backend.
func Bind(ctx context.Context, backend Backend, visitor string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{
		ctx:     context.WithoutCancel(ctx),
		backend: backend,
		visitor: visitor,
		logger:  logger,
		values:  map[string]string{},
	}
	if backend == nil || visitor == "" {
		return a
	}
	loaded, err := backend.Load(ctx, visitor)
	if err != nil {
		logger.Warn("preferences unavailable; using defaults", zap.String("visitor", visitor), zap.Error(err))
		return a
	}
	for k, v := range loaded {
		a.values[k] = v
	}
	return a
}

// Get implements Store.
func (a *Adapter) Get(name string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.values[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set implements Store.
func (a *Adapter) Set(name, value string) {
	a.mu.Lock()
	a.values[name] = value
	a.mu.Unlock()
	if a.backend == nil || a.visitor == "" {
		return
	}
	if err := a.backend.Save(a.ctx, a.visitor, name, value); err != nil {
		a.logger.Warn("persist preference failed", zap.String("visitor", a.visitor), zap.String("name", name), zap.Error(err))
	}
}

// MemoryBackend keeps preferences in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: map[string]map[string]string{}}
}

// Load implements Backend.
func (m *MemoryBackend) Load(_ context.Context, visitor string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data[visitor]))
	for k, v := range m.data[visitor] {
		out[k] = v
	}
	return out, nil
}

// Save implements Backend.
func (m *MemoryBackend) Save(_ context.Context, visitor, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[visitor] == nil {
		m.data[visitor] = map[string]string{}
	}
	m.data[visitor][name] = value
	return nil
}

// Map is a Store over a plain map, for one-shot renders and tests.
type Map map[string]string

// Get implements Store.
func (m Map) Get(name string) (string, bool) {
	v, ok := m[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set implements Store.
func (m Map) Set(name, value string) { m[name] = value }
