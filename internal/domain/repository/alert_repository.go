package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/manufactura-api/internal/domain/entity"
)

// AlertRepository define el puerto de persistencia de alertas y notificaciones.
type AlertRepository interface {
	// GetOpenByProduct devuelve la alerta abierta del producto o nil.
	GetOpenByProduct(productID string) (*entity.StockAlert, error)
	Create(alert *entity.StockAlert) error
	UpdateCurrentStock(alertID string, current decimal.Decimal) error
	Resolve(alertID string) error
	ListOpen() ([]*entity.StockAlert, error)

	HasUnreadNotification(alertID string) (bool, error)
	CreateNotification(n *entity.Notification) error
	MarkNotificationRead(id string) error
	ListUnreadNotifications() ([]*entity.Notification, error)
}
