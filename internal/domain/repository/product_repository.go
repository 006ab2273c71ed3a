package repository

import "github.com/tu-usuario/manufactura-api/internal/domain/entity"

// ProductRepository es el puerto de lectura del catálogo de productos.
// El catálogo es un colaborador externo: este núcleo solo confirma existencia
// y lee categoría/umbral, nunca lo administra.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	// ListWithThreshold devuelve los productos con umbral mínimo configurado.
	ListWithThreshold() ([]*entity.Product, error)
}
