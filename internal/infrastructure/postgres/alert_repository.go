package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository sobre PostgreSQL (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador de alertas. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// GetOpenByProduct devuelve la alerta abierta del producto o nil.
func (r *AlertRepo) GetOpenByProduct(productID string) (*entity.StockAlert, error) {
	query := `
		SELECT id, product_id, min_stock, current_stock, resolved, created_at, updated_at
		FROM stock_alerts WHERE product_id = $1 AND resolved = false`
	var a entity.StockAlert
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&a.ID, &a.ProductID, &a.MinStock, &a.CurrentStock, &a.Resolved, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open alert: %w", err)
	}
	return &a, nil
}

// Create persiste una alerta. El índice único parcial sobre
// (product_id) WHERE resolved = false respalda "una abierta por producto".
func (r *AlertRepo) Create(alert *entity.StockAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_alerts (id, product_id, min_stock, current_stock, resolved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		alert.ID, alert.ProductID, alert.MinStock, alert.CurrentStock, alert.CreatedAt, alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// UpdateCurrentStock refresca el stock reportado en una alerta abierta.
func (r *AlertRepo) UpdateCurrentStock(alertID string, current decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_alerts SET current_stock = $2, updated_at = now() WHERE id = $1`,
		alertID, current,
	)
	if err != nil {
		return fmt.Errorf("update alert stock: %w", err)
	}
	return nil
}

// Resolve cierra una alerta.
func (r *AlertRepo) Resolve(alertID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_alerts SET resolved = true, updated_at = now() WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

// ListOpen lista las alertas abiertas, la más antigua primero.
func (r *AlertRepo) ListOpen() ([]*entity.StockAlert, error) {
	query := `
		SELECT id, product_id, min_stock, current_stock, resolved, created_at, updated_at
		FROM stock_alerts WHERE resolved = false ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list open alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAlert
	for rows.Next() {
		var a entity.StockAlert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.MinStock, &a.CurrentStock, &a.Resolved, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// HasUnreadNotification indica si la alerta ya tiene notificación sin leer.
func (r *AlertRepo) HasUnreadNotification(alertID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE alert_id = $1 AND read = false)`, alertID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has unread notification: %w", err)
	}
	return exists, nil
}

// CreateNotification persiste una notificación.
func (r *AlertRepo) CreateNotification(n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	query := `
		INSERT INTO notifications (id, alert_id, product_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, false, $5)`
	_, err := r.q.Exec(context.Background(), query, n.ID, n.AlertID, n.ProductID, n.Message, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkNotificationRead marca una notificación como leída.
func (r *AlertRepo) MarkNotificationRead(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// ListUnreadNotifications lista las notificaciones sin leer.
func (r *AlertRepo) ListUnreadNotifications() ([]*entity.Notification, error) {
	query := `
		SELECT id, alert_id, product_id, message, read, created_at
		FROM notifications WHERE read = false ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.AlertID, &n.ProductID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
