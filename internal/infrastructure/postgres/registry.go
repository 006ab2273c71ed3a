package postgres

import (
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/manufactura-api/internal/domain"
)

// Registry es el registro explícito de pools por tenant. El aprovisionamiento
// de conexiones es externo: aquí solo se registran y se entregan handles ya
// resueltos, sin estado global ambiente.
type Registry struct {
	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
}

// NewRegistry construye un registro vacío.
func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]*pgxpool.Pool)}
}

// Register asocia el pool de un tenant. Reemplaza el anterior si existía.
func (r *Registry) Register(tenantID string, pool *pgxpool.Pool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[tenantID] = pool
}

// Get devuelve el pool del tenant o ErrNotFound.
func (r *Registry) Get(tenantID string) (*pgxpool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.pools[tenantID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return pool, nil
}

// Close cierra todos los pools registrados.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pool := range r.pools {
		pool.Close()
		delete(r.pools, id)
	}
}
