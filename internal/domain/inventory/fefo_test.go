package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fefoAsOf = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

// posWithExpiry construye una posición de un lote con vencimiento a N días de fefoAsOf.
func posWithExpiry(lot string, daysOut int, available int64) *entity.InventoryPosition {
	exp := fefoAsOf.AddDate(0, 0, daysOut)
	return &entity.InventoryPosition{
		Key: entity.PositionKey{
			ProductID:    "prod-1",
			WarehouseID:  "wh-1",
			LotNumber:    lot,
			LocationCode: "A-01",
		},
		QuantityOnHand: decimal.NewFromInt(available),
		ExpiryDate:     &exp,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// SelectForPickFEFO
// ──────────────────────────────────────────────────────────────────────────────

// Vector de referencia: lotes a {10d, 3d, 20d} con disponible {5,5,5} y necesidad 7
// → consume el lote de 3 días completo (5) y el faltante (2) del lote de 10 días,
// en ese orden. El lote de 20 días no se toca.
func TestSelectForPickFEFO_ConsumeLotesPorVencimiento(t *testing.T) {
	positions := []*entity.InventoryPosition{
		posWithExpiry("L-10D", 10, 5),
		posWithExpiry("L-3D", 3, 5),
		posWithExpiry("L-20D", 20, 5),
	}

	plan, err := inventory.SelectForPickFEFO(positions, decimal.NewFromInt(7))
	require.NoError(t, err, "con disponible total 15 y necesidad 7 no debe fallar")
	require.Len(t, plan, 2, "el plan debe consumir exactamente dos lotes")

	assert.Equal(t, "L-3D", plan[0].Key.LotNumber, "el lote más próximo a vencer va primero")
	assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(5)), "el primer lote se consume completo")
	assert.Equal(t, "L-10D", plan[1].Key.LotNumber, "el segundo lote es el siguiente por vencimiento")
	assert.True(t, plan[1].Quantity.Equal(decimal.NewFromInt(2)), "del segundo lote solo se toma el faltante")
}

func TestSelectForPickFEFO_DisponibleInsuficiente(t *testing.T) {
	positions := []*entity.InventoryPosition{
		posWithExpiry("L-A", 5, 4),
		posWithExpiry("L-B", 8, 4),
	}

	_, err := inventory.SelectForPickFEFO(positions, decimal.NewFromInt(9))
	assert.ErrorIs(t, err, domain.ErrInsufficientAcrossLots,
		"con disponible 8 y necesidad 9 debe fallar por existencia insuficiente entre lotes")
}

func TestSelectForPickFEFO_IgnoraCantidadReservada(t *testing.T) {
	// Disponible = en mano - reservado: el plan no puede tocar lo ya reservado.
	p := posWithExpiry("L-A", 5, 10)
	p.QuantityAllocated = decimal.NewFromInt(7)

	_, err := inventory.SelectForPickFEFO([]*entity.InventoryPosition{p}, decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientAcrossLots,
		"solo hay 3 disponibles (10 en mano - 7 reservados)")

	plan, err := inventory.SelectForPickFEFO([]*entity.InventoryPosition{p}, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, plan[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestSelectForPickFEFO_LotesSinVencimientoVanDeUltimos(t *testing.T) {
	noExp := posWithExpiry("L-SIN", 0, 5)
	noExp.ExpiryDate = nil

	positions := []*entity.InventoryPosition{noExp, posWithExpiry("L-30D", 30, 5)}

	plan, err := inventory.SelectForPickFEFO(positions, decimal.NewFromInt(6))
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "L-30D", plan[0].Key.LotNumber, "el lote con fecha va antes que el lote sin fecha")
	assert.Equal(t, "L-SIN", plan[1].Key.LotNumber)
}

func TestSelectForPickFEFO_CantidadInvalida(t *testing.T) {
	_, err := inventory.SelectForPickFEFO(nil, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "necesidad cero o negativa es entrada inválida")
}

// ──────────────────────────────────────────────────────────────────────────────
// DaysToExpiry y ExpiringSoon
// ──────────────────────────────────────────────────────────────────────────────

func TestDaysToExpiry_VencidoEsNegativo(t *testing.T) {
	days, ok := inventory.DaysToExpiry(posWithExpiry("L-V", -2, 1), fefoAsOf)
	require.True(t, ok)
	assert.Equal(t, -2, days, "un lote vencido hace 2 días reporta -2")

	days, ok = inventory.DaysToExpiry(posWithExpiry("L-F", 15, 1), fefoAsOf)
	require.True(t, ok)
	assert.Equal(t, 15, days)
}

func TestDaysToExpiry_SinFecha(t *testing.T) {
	p := posWithExpiry("L-S", 0, 1)
	p.ExpiryDate = nil
	_, ok := inventory.DaysToExpiry(p, fefoAsOf)
	assert.False(t, ok, "posición sin fecha de vencimiento no tiene countdown")
}

func TestExpiringSoon_VentanaDeAlerta(t *testing.T) {
	positions := []*entity.InventoryPosition{
		posWithExpiry("L-2D", 2, 5),
		posWithExpiry("L-9D", 9, 5),  // fuera de la ventana de 7 días
		posWithExpiry("L-VENC", -1, 3),
		posWithExpiry("L-CERO", 4, 0), // sin existencia: no alerta
	}

	alerts := inventory.ExpiringSoon(positions, fefoAsOf, 7)
	require.Len(t, alerts, 2, "solo alertan lotes con existencia dentro de la ventana")
	assert.Equal(t, "L-VENC", alerts[0].Key.LotNumber, "lo vencido va primero")
	assert.Equal(t, -1, alerts[0].DaysToExpiry)
	assert.Equal(t, "L-2D", alerts[1].Key.LotNumber)
}
