package repository

import (
	"time"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// CatchWeightRepository define el puerto de persistencia para capturas de peso
// variable y sus piezas.
type CatchWeightRepository interface {
	// Create persiste la captura con sus piezas (misma transacción).
	Create(entry *entity.CatchWeightEntry) error
	GetByID(id string) (*entity.CatchWeightEntry, error)
	ListByReference(productID, referenceType, referenceID string) ([]*entity.CatchWeightEntry, error)
	// UpdateStatus registra el resultado de un override (status + quién + cuándo).
	UpdateStatus(id, status, overriddenBy string, at time.Time) error
	// MarkBilled marca la captura como facturada; devuelve false si ya lo estaba
	// (guarda de idempotencia, sin doble efecto).
	MarkBilled(id string, at time.Time) (bool, error)
}
