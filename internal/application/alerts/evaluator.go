package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
	"github.com/tu-usuario/manufactura-api/internal/domain/repository"
)

// Evaluator recalcula el stock de productos contra su umbral mínimo y
// mantiene alertas/notificaciones deduplicadas. Es consultivo: corre después
// del commit y su falla jamás revierte la mutación que lo disparó.
type Evaluator struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	alertRepo   repository.AlertRepository
}

// NewEvaluator construye el evaluador de alertas.
func NewEvaluator(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository, alertRepo repository.AlertRepository) *Evaluator {
	return &Evaluator{productRepo: productRepo, ledgerRepo: ledgerRepo, alertRepo: alertRepo}
}

// Evaluate evalúa los productos indicados. El saldo se deriva del libro en
// cada evaluación (nunca se cachea).
func (e *Evaluator) Evaluate(ctx context.Context, productIDs ...string) error {
	for _, id := range productIDs {
		product, err := e.productRepo.GetByID(id)
		if err != nil {
			return err
		}
		if product == nil || !product.HasThreshold() {
			continue
		}
		if err := e.evaluateProduct(ctx, product); err != nil {
			return fmt.Errorf("evaluar alerta de producto %s: %w", id, err)
		}
	}
	return nil
}

// EvaluateAll evalúa todos los productos con umbral configurado.
func (e *Evaluator) EvaluateAll(ctx context.Context) error {
	products, err := e.productRepo.ListWithThreshold()
	if err != nil {
		return err
	}
	for _, p := range products {
		if err := e.evaluateProduct(ctx, p); err != nil {
			return fmt.Errorf("evaluar alerta de producto %s: %w", p.ID, err)
		}
	}
	return nil
}

func (e *Evaluator) evaluateProduct(ctx context.Context, product *entity.Product) error {
	balance, err := e.ledgerRepo.Balance(product.ID, "")
	if err != nil {
		return err
	}
	open, err := e.alertRepo.GetOpenByProduct(product.ID)
	if err != nil {
		return err
	}

	if balance.GreaterThan(*product.MinStock) {
		// Recuperado: cerrar la alerta abierta si existe.
		if open != nil {
			return e.alertRepo.Resolve(open.ID)
		}
		return nil
	}

	if open != nil {
		// Ya hay alerta: refrescar el stock reportado y garantizar a lo sumo
		// una notificación sin leer.
		if err := e.alertRepo.UpdateCurrentStock(open.ID, balance); err != nil {
			return err
		}
		unread, err := e.alertRepo.HasUnreadNotification(open.ID)
		if err != nil || unread {
			return err
		}
		return e.alertRepo.CreateNotification(newNotification(open.ID, product, balance.String()))
	}

	alert := &entity.StockAlert{
		ID:           uuid.New().String(),
		ProductID:    product.ID,
		MinStock:     *product.MinStock,
		CurrentStock: balance,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := e.alertRepo.Create(alert); err != nil {
		return err
	}
	return e.alertRepo.CreateNotification(newNotification(alert.ID, product, balance.String()))
}

func newNotification(alertID string, product *entity.Product, balance string) *entity.Notification {
	return &entity.Notification{
		ID:        uuid.New().String(),
		AlertID:   alertID,
		ProductID: product.ID,
		Message:   fmt.Sprintf("stock bajo para %s: %s %s (mínimo %s)", product.Name, balance, product.Unit, product.MinStock.String()),
		CreatedAt: time.Now(),
	}
}

// ListOpen devuelve las alertas abiertas.
func (e *Evaluator) ListOpen(ctx context.Context) ([]*entity.StockAlert, error) {
	return e.alertRepo.ListOpen()
}

// ListUnread devuelve las notificaciones sin leer.
func (e *Evaluator) ListUnread(ctx context.Context) ([]*entity.Notification, error) {
	return e.alertRepo.ListUnreadNotifications()
}

// MarkRead marca una notificación como leída.
func (e *Evaluator) MarkRead(ctx context.Context, notificationID string) error {
	return e.alertRepo.MarkNotificationRead(notificationID)
}
