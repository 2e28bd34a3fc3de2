package inventory

import (
	"context"

	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la atomicidad del libro: la
// actualización de posición y el asiento en el log entran o salen juntos.
// La implementación aplica el lock_timeout configurado y traduce la
// contención de bloqueos a domain.ErrLockContention (reintentable).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		posRepo repository.PositionRepository,
		txnRepo repository.TransactionRepository,
	) error) error
}
