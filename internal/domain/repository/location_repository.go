package repository

import "github.com/tu-usuario/manufactura-api/internal/domain/entity"

// LocationRepository es el puerto de lectura de bodegas/ubicaciones
// (colaborador externo; aquí solo se verifica existencia).
type LocationRepository interface {
	GetByID(id string) (*entity.Location, error)
}
