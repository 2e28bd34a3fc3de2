package catchweight_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribuidora-api/internal/application/catchweight"
	"github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

const testActor = "user-bodeguero-1"

// resEnCanal producto de peso variable típico: res en canal, tolerancia 10%.
func resEnCanal() *entity.Product {
	return &entity.Product{
		ID:               "prod-res",
		CompanyID:        "emp-1",
		SKU:              "RES-CANAL",
		Name:             "Res en canal",
		Price:            decimal.NewFromInt(18_000),
		IsCatchWeight:    true,
		CatchWeightUnit:  "kg",
		AverageWeight:    decimal.NewFromInt(250),
		TolerancePercent: decimal.NewFromInt(10),
	}
}

func newTestUseCase(products ...*entity.Product) (*catchweight.UseCase, *fakeCaptureRunner) {
	runner := newFakeCaptureRunner()
	prodRepo := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		prodRepo.products[p.ID] = p
	}
	ledger := inventory.NewLedgerUseCase(runner, runner.posRepo, runner.txnRepo)
	uc := catchweight.NewUseCase(runner, ledger, prodRepo, runner.cwRepo, catchweight.DefaultPolicy())
	return uc, runner
}

func captureInput(expected, actual int64) catchweight.CaptureInput {
	return catchweight.CaptureInput{
		ProductID:      "prod-res",
		ReferenceType:  entity.RefTypeReceiving,
		ReferenceID:    "RCV-001",
		WarehouseID:    "wh-norte",
		LotNumber:      "L-2026-001",
		LocationCode:   "A-03",
		ExpectedWeight: decimal.NewFromInt(expected),
		ActualWeight:   decimal.NewFromInt(actual),
		UnitCost:       decimal.NewFromInt(12_000),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de tolerancia
// ──────────────────────────────────────────────────────────────────────────────

func TestCapture_VarianzaDentroDelAutoAceptado(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())

	// 52 vs 50 esperado = 4% de varianza, dentro del 5% auto-aceptado.
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureStatusAccepted, entry.Status)
	assert.True(t, entry.VarianceWeight.Equal(decimal.NewFromInt(2)))
	assert.True(t, entry.VariancePercent.Equal(decimal.NewFromInt(4)))

	// La recepción se publica con el peso REAL, no el nominal.
	pos := runner.store.positions[entry.PositionKey().String()]
	require.NotNil(t, pos, "la captura aceptada debe crear la posición")
	assert.True(t, pos.QuantityOnHand.Equal(decimal.NewFromInt(52)))
	require.Len(t, runner.store.txns, 1)
	assert.Equal(t, entity.TxTypeReceive, runner.store.txns[0].Type)
	assert.Equal(t, entity.RefTypeCatchWeight, runner.store.txns[0].ReferenceType)
}

func TestCapture_VarianzaConAdvertencia(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	// 54 vs 50 = 8%: por encima del auto-aceptado pero dentro del 10% del producto.
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 54))
	require.NoError(t, err)
	assert.Equal(t, entity.CaptureStatusWarning, entry.Status)
}

func TestCapture_VarianzaFueraDeTolerancia(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())

	// 60 vs 50 = 20%: fuera de la tolerancia del producto.
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 60))
	assert.ErrorIs(t, err, domain.ErrToleranceExceeded)

	require.NotNil(t, entry, "la captura rechazada igual se devuelve para la ruta de aprobación")
	assert.Equal(t, entity.CaptureStatusRejected, entry.Status)

	// Se persiste para auditoría, pero sin ningún efecto en el libro.
	_, ok := runner.store.entries[entry.ID]
	assert.True(t, ok, "la captura rechazada queda guardada")
	assert.Empty(t, runner.store.txns)
	assert.Empty(t, runner.store.positions)
}

func TestCapture_PesoRealNoPositivoEsInvalido(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())

	for _, actual := range []int64{0, -3} {
		entry, err := uc.Capture(context.Background(), testActor, captureInput(50, actual))
		assert.ErrorIs(t, err, domain.ErrInvalidInput,
			"un peso real de %d no puede llegar al libro", actual)
		assert.Nil(t, entry)
	}
	// Se rechaza antes de la política de tolerancia: no queda ni la captura.
	assert.Empty(t, runner.store.entries)
	assert.Empty(t, runner.store.txns)
}

func TestCapture_CostoUnitarioNegativoEsInvalido(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	in := captureInput(50, 52)
	in.UnitCost = decimal.NewFromInt(-1)
	_, err := uc.Capture(context.Background(), testActor, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCapture_VarianzaNegativaUsaValorAbsoluto(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	// 48 vs 50 = -4%: el faltante también cae dentro del auto-aceptado.
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 48))
	require.NoError(t, err)
	assert.Equal(t, entity.CaptureStatusAccepted, entry.Status)
	assert.True(t, entry.VarianceWeight.Equal(decimal.NewFromInt(-2)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestCapture_ProductoSinPesoVariable(t *testing.T) {
	producto := resEnCanal()
	producto.IsCatchWeight = false
	uc, _ := newTestUseCase(producto)

	_, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	assert.ErrorIs(t, err, domain.ErrNotCatchWeight)
}

func TestCapture_PesoEsperadoInvalido(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	_, err := uc.Capture(context.Background(), testActor, captureInput(0, 52))
	assert.ErrorIs(t, err, domain.ErrInvalidExpectedWeight)

	_, err = uc.Capture(context.Background(), testActor, captureInput(-10, 52))
	assert.ErrorIs(t, err, domain.ErrInvalidExpectedWeight)
}

func TestCapture_ProductoInexistente(t *testing.T) {
	uc, _ := newTestUseCase()

	_, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación de piezas
// ──────────────────────────────────────────────────────────────────────────────

func TestCapture_ProductoExigePiezas(t *testing.T) {
	producto := resEnCanal()
	producto.RequiresPieceWeights = true
	uc, _ := newTestUseCase(producto)

	_, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	assert.ErrorIs(t, err, domain.ErrPieceRequired)
}

func TestCapture_SumaDePiezasFueraDeEpsilon(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	in := captureInput(50, 50)
	// 24.99 + 24.99 = 49.98: difiere 0.02 del peso real, fuera del epsilon 0.01.
	in.Pieces = []catchweight.PieceInput{
		{Weight: decimal.NewFromFloat(24.99)},
		{Weight: decimal.NewFromFloat(24.99)},
	}
	_, err := uc.Capture(context.Background(), testActor, in)
	assert.ErrorIs(t, err, domain.ErrPieceSumMismatch)
}

func TestCapture_SumaDePiezasDentroDeEpsilon(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	in := captureInput(50, 50)
	// 25.000 + 25.005 = 50.005: difiere 0.005, dentro del epsilon.
	in.Pieces = []catchweight.PieceInput{
		{Weight: decimal.NewFromFloat(25.000), Barcode: "PZ-1"},
		{Weight: decimal.NewFromFloat(25.005), Barcode: "PZ-2"},
	}
	entry, err := uc.Capture(context.Background(), testActor, in)
	require.NoError(t, err)

	require.Len(t, entry.Pieces, 2)
	assert.Equal(t, 1, entry.Pieces[0].PieceNumber)
	assert.Equal(t, 2, entry.Pieces[1].PieceNumber)
	assert.Equal(t, entry.ID, entry.Pieces[0].EntryID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Referencia de ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestCapture_ReferenciaAjustePublicaLaVarianza(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())

	in := captureInput(100, 103)
	in.ReferenceType = entity.RefTypeAdjustment
	in.ReferenceID = "ADJ-7"

	entry, err := uc.Capture(context.Background(), testActor, in)
	require.NoError(t, err)
	assert.Equal(t, entity.CaptureStatusAccepted, entry.Status)

	// Solo la varianza (+3) entra al libro, como ajuste.
	require.Len(t, runner.store.txns, 1)
	assert.Equal(t, entity.TxTypeAdjustIn, runner.store.txns[0].Type)
	assert.True(t, runner.store.txns[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestCapture_ReferenciaVentaNoMueveStock(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())

	in := captureInput(50, 52)
	in.ReferenceType = entity.RefTypeSalesOrder
	in.ReferenceID = "SO-44"

	_, err := uc.Capture(context.Background(), testActor, in)
	require.NoError(t, err)
	assert.Empty(t, runner.store.txns, "el despacho registra el movimiento, no la captura")
}

// ──────────────────────────────────────────────────────────────────────────────
// Override de capturas rechazadas
// ──────────────────────────────────────────────────────────────────────────────

func rejectedEntry(t *testing.T, uc *catchweight.UseCase) *entity.CatchWeightEntry {
	t.Helper()
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 60))
	require.ErrorIs(t, err, domain.ErrToleranceExceeded)
	return entry
}

func TestOverride_ApruebaCapturaRechazada(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())
	entry := rejectedEntry(t, uc)

	out, err := uc.Override(context.Background(), "user-supervisor-1", entry.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.CaptureStatusOverridden, out.Status)
	assert.Equal(t, "user-supervisor-1", out.OverriddenBy)
	require.NotNil(t, out.OverriddenAt)

	// El override publica la recepción con los pesos ya capturados.
	pos := runner.store.positions[entry.PositionKey().String()]
	require.NotNil(t, pos)
	assert.True(t, pos.QuantityOnHand.Equal(decimal.NewFromInt(60)))
	require.Len(t, runner.store.txns, 1)
	assert.Equal(t, entity.TxTypeReceive, runner.store.txns[0].Type)
}

func TestOverride_SoloSobreRechazadas(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	require.NoError(t, err)

	_, err = uc.Override(context.Background(), "user-supervisor-1", entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotRejected)
}

func TestOverride_CapturaInexistente(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())

	_, err := uc.Override(context.Background(), "user-supervisor-1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturación
// ──────────────────────────────────────────────────────────────────────────────

func TestBillingAdjustment_VarianzaPorPrecio(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	require.NoError(t, err)

	// +2 kg × $18.000 = $36.000 a favor del distribuidor.
	delta, err := uc.BillingAdjustment(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(36_000)))
}

func TestBillingAdjustment_FaltanteGeneraCredito(t *testing.T) {
	uc, _ := newTestUseCase(resEnCanal())
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 48))
	require.NoError(t, err)

	// -2 kg × $18.000 = -$36.000: crédito para el cliente.
	delta, err := uc.BillingAdjustment(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(-36_000)))
}

func TestMarkAsBilled_EsIdempotente(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())
	entry, err := uc.Capture(context.Background(), testActor, captureInput(50, 52))
	require.NoError(t, err)

	require.NoError(t, uc.MarkAsBilled(context.Background(), entry.ID))
	stored := runner.store.entries[entry.ID]
	assert.True(t, stored.IsBilled)
	require.NotNil(t, stored.BilledAt)
	firstBilledAt := *stored.BilledAt

	// La segunda llamada no produce doble efecto ni mueve la marca de tiempo.
	err = uc.MarkAsBilled(context.Background(), entry.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBilled)
	assert.Equal(t, firstBilledAt, *runner.store.entries[entry.ID].BilledAt)
}

func TestOverride_CapturaFacturadaEsInmutable(t *testing.T) {
	uc, runner := newTestUseCase(resEnCanal())
	entry := rejectedEntry(t, uc)

	// Se fuerza el estado facturado directamente en el store.
	runner.store.entries[entry.ID].IsBilled = true

	_, err := uc.Override(context.Background(), "user-supervisor-1", entry.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBilled)
}
