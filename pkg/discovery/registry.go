package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/intelliglow/pkg/bulb"
)

// ErrNotRegistered indicates no live connection exists for an address.
var ErrNotRegistered = errors.New("no connection to bulb")

// Registry is the durable keyed collection of live bulb connections. It is
// the sole owner of its clients' lifetimes; callers borrow references and
// never close a client themselves.
type Registry struct {
	// Timeout is applied to clients the registry constructs.
	// Zero means bulb.DefaultTimeout.
	Timeout time.Duration

	mu      sync.RWMutex
	clients map[bulb.Addr]*bulb.Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[bulb.Addr]*bulb.Client)}
}

// Connect returns the live client for addr, establishing it first if needed.
// Calling Connect twice with the same address returns the identical client
// and performs exactly one underlying connect. A failed connect is propagated
// without registering a half-open entry.
func (r *Registry) Connect(ctx context.Context, addr bulb.Addr) (*bulb.Client, error) {
	r.mu.RLock()
	if c, ok := r.clients[addr]; ok {
		r.mu.RUnlock()
		log.Debug().Str("bulb", addr.String()).Msg("Already connected")
		return c, nil
	}
	r.mu.RUnlock()

	c := bulb.NewClient(bulb.Config{Addr: addr, Timeout: r.Timeout})
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if existing, ok := r.clients[addr]; ok {
		// Lost a connect race; keep the registered client.
		r.mu.Unlock()
		_ = c.Close()
		return existing, nil
	}
	r.clients[addr] = c
	r.mu.Unlock()

	return c, nil
}

// Get returns the registered client for addr, if any. Lookup only, no side
// effects.
func (r *Registry) Get(addr bulb.Addr) (*bulb.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[addr]
	return c, ok
}

// IsConnected reports whether a live client exists for addr.
func (r *Registry) IsConnected(addr bulb.Addr) bool {
	_, ok := r.Get(addr)
	return ok
}

// GetAll returns a snapshot copy of the registry keyed by address string.
// Mutating the returned map does not affect the registry.
func (r *Registry) GetAll() map[string]*bulb.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[string]*bulb.Client, len(r.clients))
	for addr, c := range r.clients {
		all[addr.String()] = c
	}
	return all
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Disconnect closes and removes the connection for addr. It reports whether
// a connection existed; disconnecting an unknown address is a no-op.
func (r *Registry) Disconnect(addr bulb.Addr) bool {
	r.mu.Lock()
	c, ok := r.clients[addr]
	if ok {
		delete(r.clients, addr)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	if err := c.Close(); err != nil {
		log.Error().Err(err).Str("bulb", addr.String()).Msg("Error closing bulb connection")
	}
	return true
}

// CloseAll closes every registered connection. A failure closing one client
// is logged and does not prevent closing the rest; the registry is empty
// afterwards regardless.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[bulb.Addr]*bulb.Client)
	r.mu.Unlock()

	for addr, c := range clients {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Str("bulb", addr.String()).Msg("Error closing bulb connection")
		}
	}
	log.Info().Int("count", len(clients)).Msg("Closed all bulb connections")
}

// BulbStatus pairs a registered address with its fetched status. Error is set
// when the status fetch itself failed.
type BulbStatus struct {
	Bulb   string      `json:"bulb"`
	Status bulb.Status `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// GetAllStatuses fetches a fresh status from every registered bulb. A bulb
// whose fetch fails is reported with a synthetic unreachable status rather
// than omitted.
func (r *Registry) GetAllStatuses(ctx context.Context) []BulbStatus {
	statuses := make([]BulbStatus, 0, r.Len())
	for key, c := range r.GetAll() {
		st, err := c.GetStatus(ctx)
		if err != nil {
			log.Error().Err(err).Str("bulb", key).Msg("Failed to get bulb status")
			statuses = append(statuses, BulbStatus{
				Bulb:   key,
				Status: bulb.Status{Connected: false},
				Error:  err.Error(),
			})
			continue
		}
		statuses = append(statuses, BulbStatus{Bulb: key, Status: st})
	}
	return statuses
}
