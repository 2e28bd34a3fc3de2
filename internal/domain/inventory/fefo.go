package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// Funciones puras sobre posiciones de un mismo producto: countdown de vencimiento
// y plan de picking FEFO (First-Expired-First-Out). Sin estado propio.

// DaysToExpiry devuelve los días completos hasta el vencimiento de la posición
// respecto a asOf. Negativo significa vencido. ok=false si la posición no
// maneja fecha de vencimiento.
func DaysToExpiry(pos *entity.InventoryPosition, asOf time.Time) (days int, ok bool) {
	if pos.ExpiryDate == nil {
		return 0, false
	}
	d := pos.ExpiryDate.Truncate(24 * time.Hour).Sub(asOf.Truncate(24 * time.Hour))
	return int(d.Hours() / 24), true
}

// LotAllocation es una línea del plan de picking: cuánto consumir de qué lote.
type LotAllocation struct {
	Key      entity.PositionKey
	Quantity decimal.Decimal
	Expiry   *time.Time
}

// SelectForPickFEFO genera el plan de picking consumiendo primero los lotes
// próximos a vencer. Consume parcialmente el último lote si su disponible es
// menor al faltante. Lotes sin fecha de vencimiento van de últimos; empates
// se resuelven por número de lote para un orden determinista.
// Devuelve ErrInsufficientAcrossLots si el disponible total no alcanza.
func SelectForPickFEFO(positions []*entity.InventoryPosition, qtyNeeded decimal.Decimal) ([]LotAllocation, error) {
	if !qtyNeeded.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	candidates := make([]*entity.InventoryPosition, 0, len(positions))
	total := decimal.Zero
	for _, p := range positions {
		if p.Available().GreaterThan(decimal.Zero) {
			candidates = append(candidates, p)
			total = total.Add(p.Available())
		}
	}
	if total.LessThan(qtyNeeded) {
		return nil, domain.ErrInsufficientAcrossLots
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.Key.LotNumber < b.Key.LotNumber
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		}
		return a.Key.LotNumber < b.Key.LotNumber
	})

	plan := make([]LotAllocation, 0, len(candidates))
	remaining := qtyNeeded
	for _, p := range candidates {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(p.Available(), remaining)
		plan = append(plan, LotAllocation{Key: p.Key, Quantity: take, Expiry: p.ExpiryDate})
		remaining = remaining.Sub(take)
	}
	return plan, nil
}

// ExpiryAlert es una posición con existencia que vence dentro de la ventana de alerta.
type ExpiryAlert struct {
	Key          entity.PositionKey
	Quantity     decimal.Decimal
	Expiry       time.Time
	DaysToExpiry int // negativo = ya vencido
}

// ExpiringSoon devuelve las posiciones con existencia cuyo vencimiento cae
// dentro de warningDays (incluye lo ya vencido), ordenadas de más urgente a menos.
func ExpiringSoon(positions []*entity.InventoryPosition, asOf time.Time, warningDays int) []ExpiryAlert {
	alerts := make([]ExpiryAlert, 0)
	for _, p := range positions {
		if !p.QuantityOnHand.GreaterThan(decimal.Zero) {
			continue
		}
		days, ok := DaysToExpiry(p, asOf)
		if !ok || days > warningDays {
			continue
		}
		alerts = append(alerts, ExpiryAlert{
			Key:          p.Key,
			Quantity:     p.QuantityOnHand,
			Expiry:       *p.ExpiryDate,
			DaysToExpiry: days,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].DaysToExpiry != alerts[j].DaysToExpiry {
			return alerts[i].DaysToExpiry < alerts[j].DaysToExpiry
		}
		return alerts[i].Key.LotNumber < alerts[j].Key.LotNumber
	})
	return alerts
}
