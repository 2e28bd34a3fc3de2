package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Políticas de crédito por cliente.
const (
	CreditPolicyStrict = "strict" // exceder el cupo bloquea la orden
	CreditPolicySoft   = "soft"   // exceder el cupo solo advierte
)

// Decisiones del evaluador de crédito.
const (
	CreditDecisionAllow = "allow"
	CreditDecisionWarn  = "warn"
	CreditDecisionBlock = "block"
)

// OpenInvoice es una factura abierta del feed externo de cartera.
// Balance es el saldo pendiente (total menos pagos aplicados).
type OpenInvoice struct {
	ID            string
	CustomerID    string
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       time.Time
	Total         decimal.Decimal
	Balance       decimal.Decimal
}

// CreditExposure es la exposición de crédito de un cliente, derivada bajo
// demanda del feed de facturas/pagos. No se persiste.
type CreditExposure struct {
	CustomerID     string
	Current        decimal.Decimal // aún no vencido
	Days1To30      decimal.Decimal
	Days31To60     decimal.Decimal
	Days61To90     decimal.Decimal
	Days90Plus     decimal.Decimal
	Total          decimal.Decimal
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
}
