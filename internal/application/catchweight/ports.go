package catchweight

import (
	"context"

	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// CaptureTxRunner ejecuta un callback con los repositorios de captura y del
// libro atados a la misma transacción: la captura y su efecto en el libro
// (cuando la tolerancia lo permite) entran o salen juntos.
type CaptureTxRunner interface {
	RunCapture(ctx context.Context, fn func(
		posRepo repository.PositionRepository,
		txnRepo repository.TransactionRepository,
		cwRepo repository.CatchWeightRepository,
	) error) error
}
