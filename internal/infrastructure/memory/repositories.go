package memory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)
var _ repository.AuditRepository = (*AuditRepo)(nil)
var _ repository.FormulaRepository = (*FormulaRepo)(nil)
var _ repository.ProductRepository = (*ProductRepo)(nil)
var _ repository.LocationRepository = (*LocationRepo)(nil)
var _ repository.AlertRepository = (*AlertRepo)(nil)

// LedgerRepo libro de movimientos en memoria.
type LedgerRepo struct{ s *Store }

// NewLedgerRepository construye el repo del libro sobre el almacén.
func NewLedgerRepository(s *Store) *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[entry.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.entries[entry.ID] = *entry
	return nil
}

func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r *LedgerRepo) Update(entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.entries[entry.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.entries[entry.ID] = *entry
	return nil
}

func (r *LedgerRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.entries, id)
	return nil
}

func (r *LedgerRepo) Balance(productID, locationID string) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, e := range r.s.entries {
		if e.ProductID != productID {
			continue
		}
		if locationID != "" && e.LocationID != locationID {
			continue
		}
		total = total.Add(e.SignedQuantity())
	}
	return total, nil
}

// BalanceForUpdate equivale a Balance: el TxRunner en memoria ya serializa
// las transacciones, así que no hay agregado que bloquear.
func (r *LedgerRepo) BalanceForUpdate(productID, locationID string) (decimal.Decimal, error) {
	return r.Balance(productID, locationID)
}

func (r *LedgerRepo) Balances(locationID string) ([]repository.ProductBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	totals := make(map[string]decimal.Decimal)
	for _, e := range r.s.entries {
		if locationID != "" && e.LocationID != locationID {
			continue
		}
		totals[e.ProductID] = totals[e.ProductID].Add(e.SignedQuantity())
	}
	list := make([]repository.ProductBalance, 0, len(totals))
	for pid, qty := range totals {
		list = append(list, repository.ProductBalance{ProductID: pid, LocationID: locationID, Quantity: qty})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (r *LedgerRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.ProductID != productID {
			continue
		}
		if from != nil && e.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && e.CreatedAt.After(*to) {
			continue
		}
		e := e
		list = append(list, &e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *LedgerRepo) ListByReference(referenceID string) ([]*entity.LedgerEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.ReferenceID != referenceID {
			continue
		}
		e := e
		list = append(list, &e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// AuditRepo rastro de auditoría en memoria.
type AuditRepo struct{ s *Store }

// NewAuditRepository construye el repo de auditoría sobre el almacén.
func NewAuditRepository(s *Store) *AuditRepo { return &AuditRepo{s: s} }

func (r *AuditRepo) Create(log *entity.AuditLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits[log.ID] = *log
	return nil
}

func (r *AuditRepo) GetByID(id string) (*entity.AuditLogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.audits[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AuditRepo) SetFlag(id string, flag bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.audits[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.IsFlag = flag
	r.s.audits[id] = a
	return nil
}

func (r *AuditRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.audits, id)
	return nil
}

func (r *AuditRepo) List(limit, offset int) ([]*entity.AuditLogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.AuditLogEntry
	for _, a := range r.s.audits {
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

func (r *AuditRepo) ListByEntry(entryID string) ([]*entity.AuditLogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.AuditLogEntry
	for _, a := range r.s.audits {
		if a.EntryID != entryID {
			continue
		}
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// FormulaRepo grafo de fórmulas en memoria.
type FormulaRepo struct{ s *Store }

// NewFormulaRepository construye el repo de fórmulas sobre el almacén.
func NewFormulaRepository(s *Store) *FormulaRepo { return &FormulaRepo{s: s} }

func (r *FormulaRepo) Add(component *entity.FormulaComponent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.formulas {
		if c.ParentProductID == component.ParentProductID && c.ComponentProductID == component.ComponentProductID {
			return domain.ErrComponentExists
		}
	}
	r.s.formulas[component.ID] = *component
	return nil
}

func (r *FormulaRepo) Components(parentProductID string) ([]*entity.FormulaComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.FormulaComponent
	for _, c := range r.s.formulas {
		if c.ParentProductID != parentProductID {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ComponentProductID < list[j].ComponentProductID })
	return list, nil
}

func (r *FormulaRepo) UsedIn(componentProductID string) ([]*entity.FormulaComponent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.FormulaComponent
	for _, c := range r.s.formulas {
		if c.ComponentProductID != componentProductID {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ParentProductID < list[j].ParentProductID })
	return list, nil
}

func (r *FormulaRepo) Has(parentProductID, componentProductID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.formulas {
		if c.ParentProductID == parentProductID && c.ComponentProductID == componentProductID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FormulaRepo) Remove(parentProductID, componentProductID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.formulas {
		if c.ParentProductID == parentProductID && c.ComponentProductID == componentProductID {
			delete(r.s.formulas, id)
		}
	}
	return nil
}

func (r *FormulaRepo) RemoveAll(parentProductID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.formulas {
		if c.ParentProductID == parentProductID {
			delete(r.s.formulas, id)
		}
	}
	return nil
}

// ProductRepo catálogo simulado (solo lectura, como el contrato).
type ProductRepo struct{ s *Store }

// NewProductRepository construye el repo de catálogo sobre el almacén.
func NewProductRepository(s *Store) *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) ListWithThreshold() ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.MinStock == nil {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SKU < list[j].SKU })
	return list, nil
}

// LocationRepo ubicaciones simuladas.
type LocationRepo struct{ s *Store }

// NewLocationRepository construye el repo de ubicaciones sobre el almacén.
func NewLocationRepository(s *Store) *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// AlertRepo alertas y notificaciones en memoria.
type AlertRepo struct{ s *Store }

// NewAlertRepository construye el repo de alertas sobre el almacén.
func NewAlertRepository(s *Store) *AlertRepo { return &AlertRepo{s: s} }

func (r *AlertRepo) GetOpenByProduct(productID string) (*entity.StockAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.alerts {
		if a.ProductID == productID && !a.Resolved {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r *AlertRepo) Create(alert *entity.StockAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.alerts[alert.ID] = *alert
	return nil
}

func (r *AlertRepo) UpdateCurrentStock(alertID string, current decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[alertID]
	if !ok {
		return domain.ErrNotFound
	}
	a.CurrentStock = current
	a.UpdatedAt = time.Now()
	r.s.alerts[alertID] = a
	return nil
}

func (r *AlertRepo) Resolve(alertID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.alerts[alertID]
	if !ok {
		return domain.ErrNotFound
	}
	a.Resolved = true
	a.UpdatedAt = time.Now()
	r.s.alerts[alertID] = a
	return nil
}

func (r *AlertRepo) ListOpen() ([]*entity.StockAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.StockAlert
	for _, a := range r.s.alerts {
		if a.Resolved {
			continue
		}
		a := a
		list = append(list, &a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *AlertRepo) HasUnreadNotification(alertID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, n := range r.s.notifications {
		if n.AlertID == alertID && !n.Read {
			return true, nil
		}
	}
	return false, nil
}

func (r *AlertRepo) CreateNotification(n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *AlertRepo) MarkNotificationRead(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r *AlertRepo) ListUnreadNotifications() ([]*entity.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Notification
	for _, n := range r.s.notifications {
		if n.Read {
			continue
		}
		n := n
		list = append(list, &n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
