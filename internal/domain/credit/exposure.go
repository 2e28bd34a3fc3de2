package credit

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// Evaluador de exposición de crédito: agrupa cartera abierta en buckets de
// antigüedad y decide si una orden nueva cabe en el cupo del cliente.
// Funciones puras: nunca mutan el libro de inventario ni el estado de facturas.

// AgingBuckets clasifica las facturas abiertas por días de mora (asOf - dueDate):
// current (no vencido), 1-30, 31-60, 61-90 y 90+. Total es la suma de saldos.
func AgingBuckets(customerID string, invoices []*entity.OpenInvoice, asOf time.Time) entity.CreditExposure {
	exp := entity.CreditExposure{CustomerID: customerID}
	day := asOf.Truncate(24 * time.Hour)
	for _, inv := range invoices {
		if inv.CustomerID != customerID || !inv.Balance.GreaterThan(decimal.Zero) {
			continue
		}
		overdue := int(day.Sub(inv.DueDate.Truncate(24*time.Hour)).Hours() / 24)
		switch {
		case overdue <= 0:
			exp.Current = exp.Current.Add(inv.Balance)
		case overdue <= 30:
			exp.Days1To30 = exp.Days1To30.Add(inv.Balance)
		case overdue <= 60:
			exp.Days31To60 = exp.Days31To60.Add(inv.Balance)
		case overdue <= 90:
			exp.Days61To90 = exp.Days61To90.Add(inv.Balance)
		default:
			exp.Days90Plus = exp.Days90Plus.Add(inv.Balance)
		}
		exp.Total = exp.Total.Add(inv.Balance)
	}
	exp.CurrentBalance = exp.Total
	return exp
}

// CheckResult es la decisión del evaluador para una orden nueva.
type CheckResult struct {
	Decision         string // allow | warn | block
	CreditLimit      decimal.Decimal
	CurrentBalance   decimal.Decimal
	ProjectedBalance decimal.Decimal
	AvailableCredit  decimal.Decimal
}

// Check proyecta el saldo con la orden nueva y decide: si el proyectado excede
// el cupo, block bajo política strict o warn bajo política soft; allow en
// cualquier otro caso. Un cupo en cero se trata como sin límite asignado (allow).
func Check(creditLimit, currentBalance, newOrderTotal decimal.Decimal, policy string) CheckResult {
	projected := currentBalance.Add(newOrderTotal)
	res := CheckResult{
		Decision:         entity.CreditDecisionAllow,
		CreditLimit:      creditLimit,
		CurrentBalance:   currentBalance,
		ProjectedBalance: projected,
		AvailableCredit:  creditLimit.Sub(projected),
	}
	if !creditLimit.GreaterThan(decimal.Zero) {
		return res
	}
	if projected.GreaterThan(creditLimit) {
		if policy == entity.CreditPolicySoft {
			res.Decision = entity.CreditDecisionWarn
		} else {
			res.Decision = entity.CreditDecisionBlock
		}
	}
	return res
}
