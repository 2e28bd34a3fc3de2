package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Distribuidora-api/internal/application/catchweight"
	"github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and catchweight.CaptureTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ catchweight.CaptureTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada
// transacción arranca con SET LOCAL lock_timeout: si un SELECT FOR UPDATE no
// consigue la fila a tiempo (55P03), el error se traduce a ErrLockContention
// para que el caller reintente.
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner con el pool y el timeout de bloqueo.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	if lockTimeoutMS <= 0 {
		lockTimeoutMS = 3000
	}
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.setLockTimeout(ctx, tx); err != nil {
		return err
	}

	posRepo := NewPositionRepository(tx)
	txnRepo := NewTransactionRepository(tx)

	if err := fn(posRepo, txnRepo); err != nil {
		return translateLockError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunCapture inicia una transacción con los repos del libro más el de capturas
// de peso variable (la captura y su efecto en el libro son una sola unidad).
func (r *TxRunner) RunCapture(ctx context.Context, fn func(
	posRepo repository.PositionRepository,
	txnRepo repository.TransactionRepository,
	cwRepo repository.CatchWeightRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.setLockTimeout(ctx, tx); err != nil {
		return err
	}

	posRepo := NewPositionRepository(tx)
	txnRepo := NewTransactionRepository(tx)
	cwRepo := NewCatchWeightRepository(tx)

	if err := fn(posRepo, txnRepo, cwRepo); err != nil {
		return translateLockError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *TxRunner) setLockTimeout(ctx context.Context, q Querier) error {
	// SET LOCAL aplica solo a la transacción en curso; no admite placeholders.
	_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS))
	if err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}
	return nil
}

func translateLockError(err error) error {
	if isLockNotAvailable(err) {
		return domain.ErrLockContention
	}
	return err
}
