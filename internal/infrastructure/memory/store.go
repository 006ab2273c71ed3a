package memory

import (
	"sync"

	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
)

// Store es el almacén en memoria: respalda los tests de los casos de uso y
// sirve de referencia ejecutable del contrato de los repositorios, sin BD.
type Store struct {
	mu            sync.RWMutex
	entries       map[string]entity.LedgerEntry
	audits        map[string]entity.AuditLogEntry
	formulas      map[string]entity.FormulaComponent
	products      map[string]entity.Product
	locations     map[string]entity.Location
	alerts        map[string]entity.StockAlert
	notifications map[string]entity.Notification
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		entries:       make(map[string]entity.LedgerEntry),
		audits:        make(map[string]entity.AuditLogEntry),
		formulas:      make(map[string]entity.FormulaComponent),
		products:      make(map[string]entity.Product),
		locations:     make(map[string]entity.Location),
		alerts:        make(map[string]entity.StockAlert),
		notifications: make(map[string]entity.Notification),
	}
}

// SeedProduct registra un producto en el catálogo simulado.
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// SeedLocation registra una ubicación simulada.
func (s *Store) SeedLocation(l entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

// snapshot copia el estado mutable para poder restaurarlo en rollback.
func (s *Store) snapshot() *storeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &storeState{
		entries:       cloneMap(s.entries),
		audits:        cloneMap(s.audits),
		formulas:      cloneMap(s.formulas),
		alerts:        cloneMap(s.alerts),
		notifications: cloneMap(s.notifications),
	}
}

// restore vuelve al estado capturado (rollback de una transacción simulada).
func (s *Store) restore(st *storeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = cloneMap(st.entries)
	s.audits = cloneMap(st.audits)
	s.formulas = cloneMap(st.formulas)
	s.alerts = cloneMap(st.alerts)
	s.notifications = cloneMap(st.notifications)
}

type storeState struct {
	entries       map[string]entity.LedgerEntry
	audits        map[string]entity.AuditLogEntry
	formulas      map[string]entity.FormulaComponent
	alerts        map[string]entity.StockAlert
	notifications map[string]entity.Notification
}

func cloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
