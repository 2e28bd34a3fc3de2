package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.CatchWeightRepository = (*CatchWeightRepo)(nil)

// CatchWeightRepo implementación de CatchWeightRepository sobre PostgreSQL
// (usable con pool o tx; el motor de captura siempre lo usa dentro de tx).
type CatchWeightRepo struct {
	q Querier
}

// NewCatchWeightRepository construye el adaptador de capturas. Pasar pool o tx (Querier).
func NewCatchWeightRepository(q Querier) *CatchWeightRepo {
	return &CatchWeightRepo{q: q}
}

const entryColumns = `id, product_id, reference_type, reference_id, warehouse_id, lot_number, location_code,
		expected_weight, actual_weight, variance_weight, variance_percent, unit, unit_cost,
		status, captured_by, captured_at, overridden_by, overridden_at, is_billed, billed_at`

// Create persiste la captura con sus piezas (misma transacción).
func (r *CatchWeightRepo) Create(entry *entity.CatchWeightEntry) error {
	ctx := context.Background()
	query := `
		INSERT INTO catch_weight_entries (id, product_id, reference_type, reference_id,
			warehouse_id, lot_number, location_code,
			expected_weight, actual_weight, variance_weight, variance_percent, unit, unit_cost,
			status, captured_by, captured_at, is_billed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, false)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.ProductID, entry.ReferenceType, entry.ReferenceID,
		entry.WarehouseID, entry.LotNumber, entry.LocationCode,
		entry.ExpectedWeight, entry.ActualWeight, entry.VarianceWeight, entry.VariancePercent,
		entry.Unit, entry.UnitCost, entry.Status, entry.CapturedBy, entry.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("insert catch weight entry: %w", err)
	}
	for _, piece := range entry.Pieces {
		_, err := r.q.Exec(ctx, `
			INSERT INTO catch_weight_pieces (id, entry_id, piece_number, weight, barcode, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			piece.ID, entry.ID, piece.PieceNumber, piece.Weight, piece.Barcode, piece.Notes,
		)
		if err != nil {
			return fmt.Errorf("insert catch weight piece: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la captura con sus piezas; nil si no existe.
func (r *CatchWeightRepo) GetByID(id string) (*entity.CatchWeightEntry, error) {
	ctx := context.Background()
	query := `SELECT ` + entryColumns + ` FROM catch_weight_entries WHERE id = $1`
	entry, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catch weight entry: %w", err)
	}
	if err := r.loadPieces(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByReference lista las capturas de un producto contra un documento.
func (r *CatchWeightRepo) ListByReference(productID, referenceType, referenceID string) ([]*entity.CatchWeightEntry, error) {
	ctx := context.Background()
	query := `
		SELECT ` + entryColumns + `
		FROM catch_weight_entries
		WHERE product_id = $1 AND reference_type = $2 AND reference_id = $3
		ORDER BY captured_at`
	rows, err := r.q.Query(ctx, query, productID, referenceType, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list catch weight entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.CatchWeightEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catch weight entry: %w", err)
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, entry := range list {
		if err := r.loadPieces(ctx, entry); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateStatus registra el resultado de un override (status + quién + cuándo).
func (r *CatchWeightRepo) UpdateStatus(id, status, overriddenBy string, at time.Time) error {
	query := `
		UPDATE catch_weight_entries
		SET status = $2, overridden_by = $3, overridden_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, overriddenBy, at)
	if err != nil {
		return fmt.Errorf("update catch weight status: %w", err)
	}
	return nil
}

// MarkBilled marca la captura como facturada; devuelve false si ya lo estaba.
// El WHERE NOT is_billed hace la idempotencia en la misma sentencia: dos
// llamadas concurrentes no pueden marcar dos veces.
func (r *CatchWeightRepo) MarkBilled(id string, at time.Time) (bool, error) {
	query := `
		UPDATE catch_weight_entries
		SET is_billed = true, billed_at = $2
		WHERE id = $1 AND NOT is_billed`
	tag, err := r.q.Exec(context.Background(), query, id, at)
	if err != nil {
		return false, fmt.Errorf("mark catch weight billed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CatchWeightRepo) loadPieces(ctx context.Context, entry *entity.CatchWeightEntry) error {
	rows, err := r.q.Query(ctx, `
		SELECT id, entry_id, piece_number, weight, barcode, notes
		FROM catch_weight_pieces WHERE entry_id = $1 ORDER BY piece_number`, entry.ID)
	if err != nil {
		return fmt.Errorf("list catch weight pieces: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.CatchWeightPiece
		if err := rows.Scan(&p.ID, &p.EntryID, &p.PieceNumber, &p.Weight, &p.Barcode, &p.Notes); err != nil {
			return fmt.Errorf("scan catch weight piece: %w", err)
		}
		entry.Pieces = append(entry.Pieces, p)
	}
	return rows.Err()
}

func scanEntry(row pgx.Row) (*entity.CatchWeightEntry, error) {
	var e entity.CatchWeightEntry
	var overriddenBy *string
	err := row.Scan(
		&e.ID, &e.ProductID, &e.ReferenceType, &e.ReferenceID,
		&e.WarehouseID, &e.LotNumber, &e.LocationCode,
		&e.ExpectedWeight, &e.ActualWeight, &e.VarianceWeight, &e.VariancePercent, &e.Unit, &e.UnitCost,
		&e.Status, &e.CapturedBy, &e.CapturedAt, &overriddenBy, &e.OverriddenAt, &e.IsBilled, &e.BilledAt,
	)
	if err != nil {
		return nil, err
	}
	if overriddenBy != nil {
		e.OverriddenBy = *overriddenBy
	}
	return &e, nil
}
