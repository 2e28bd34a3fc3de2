package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

var _ repository.OpenInvoiceRepository = (*OpenInvoiceRepo)(nil)

// OpenInvoiceRepo lectura del feed de cartera (tabla alimentada por el sistema
// de facturación externo). Este core nunca escribe en ella.
type OpenInvoiceRepo struct {
	q Querier
}

// NewOpenInvoiceRepository construye el adaptador del feed de cartera.
func NewOpenInvoiceRepository(q Querier) *OpenInvoiceRepo {
	return &OpenInvoiceRepo{q: q}
}

// ListOpenByCustomer lista las facturas con saldo pendiente de un cliente.
func (r *OpenInvoiceRepo) ListOpenByCustomer(customerID string) ([]*entity.OpenInvoice, error) {
	query := `
		SELECT id, customer_id, invoice_number, issue_date, due_date, total, balance
		FROM open_invoices
		WHERE customer_id = $1 AND balance > 0
		ORDER BY due_date`
	rows, err := r.q.Query(context.Background(), query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list open invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.OpenInvoice
	for rows.Next() {
		var inv entity.OpenInvoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.InvoiceNumber,
			&inv.IssueDate, &inv.DueDate, &inv.Total, &inv.Balance); err != nil {
			return nil, fmt.Errorf("scan open invoice: %w", err)
		}
		if !inv.Balance.GreaterThan(decimal.Zero) {
			continue
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}
