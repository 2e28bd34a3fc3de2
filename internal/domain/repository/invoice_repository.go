package repository

import "github.com/jhoicas/Distribuidora-api/internal/domain/entity"

// OpenInvoiceRepository define el puerto de solo lectura sobre el feed de
// cartera (facturas/pagos los calcula el sistema de facturación externo; este
// core solo los consume para exposición de crédito).
type OpenInvoiceRepository interface {
	ListOpenByCustomer(customerID string) ([]*entity.OpenInvoice, error)
}
