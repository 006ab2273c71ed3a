package entity

import "time"

// Location es una bodega o ubicación física donde se mantiene stock.
type Location struct {
	ID        string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
}
