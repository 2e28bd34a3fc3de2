package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

func transferInput(qty int64) inventory.TransferInput {
	return inventory.TransferInput{
		ProductID:       "prod-res",
		FromWarehouseID: "wh-norte",
		ToWarehouseID:   "wh-sur",
		LotNumber:       "L-2026-001",
		FromLocation:    "A-03",
		ToLocation:      "B-01",
		Quantity:        decimal.NewFromInt(qty),
		ReferenceNumber: "TRF-9",
	}
}

// seedSource recepciona existencia en la bodega origen usando el ledger real.
func seedSource(t *testing.T, runner *fakeTxRunner, qty int64) *inventory.LedgerUseCase {
	t.Helper()
	ledger := inventory.NewLedgerUseCase(runner, runner.posRepo, runner.txnRepo)
	exp := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err := ledger.Receive(context.Background(), testActor, inventory.ReceiveInput{
		Key:             testKey,
		Quantity:        decimal.NewFromInt(qty),
		UnitCost:        decimal.NewFromInt(2_500),
		ExpiryDate:      &exp,
		ReferenceType:   entity.RefTypeReceiving,
		ReferenceNumber: "RCV-001",
	})
	require.NoError(t, err)
	return ledger
}

func TestTransfer_MueveExistenciaEntreBodegas(t *testing.T) {
	runner := newFakeTxRunner()
	seedSource(t, runner, 20)
	uc := inventory.NewTransferUseCase(runner)

	res, err := uc.Transfer(context.Background(), testActor, transferInput(8))
	require.NoError(t, err)

	assert.True(t, res.Source.QuantityOnHand.Equal(decimal.NewFromInt(12)))
	assert.True(t, res.Dest.QuantityOnHand.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "wh-sur", res.Dest.Key.WarehouseID)
	assert.Equal(t, "L-2026-001", res.Dest.Key.LotNumber, "el destino hereda el lote del origen")
	require.NotNil(t, res.Dest.ExpiryDate, "el destino hereda el vencimiento del origen")
	assert.True(t, res.Dest.AverageCost.Equal(decimal.NewFromInt(2_500)),
		"el destino recibe al costo promedio del origen")

	// Dos asientos con el mismo TransferID, cantidades espejo.
	var out, in *entity.InventoryTransaction
	for _, txn := range runner.store.txns {
		switch txn.Type {
		case entity.TxTypeTransferOut:
			out = txn
		case entity.TxTypeTransferIn:
			in = txn
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, res.TransferID, out.TransferID)
	assert.Equal(t, res.TransferID, in.TransferID)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(-8)))
	assert.True(t, in.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestTransfer_DestinoIgualOrigen(t *testing.T) {
	uc := inventory.NewTransferUseCase(newFakeTxRunner())
	in := transferInput(5)
	in.ToWarehouseID = in.FromWarehouseID

	_, err := uc.Transfer(context.Background(), testActor, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransferDestination)
}

func TestTransfer_DisponibleInsuficienteNoDejaEfectos(t *testing.T) {
	runner := newFakeTxRunner()
	ledger := seedSource(t, runner, 20)
	// 15 reservados: solo 5 disponibles para trasladar.
	_, err := ledger.Allocate(context.Background(), testKey, decimal.NewFromInt(15))
	require.NoError(t, err)

	uc := inventory.NewTransferUseCase(runner)
	_, err = uc.Transfer(context.Background(), testActor, transferInput(8))
	assert.ErrorIs(t, err, domain.ErrInsufficientAvailable,
		"el traslado no puede tocar cantidad reservada")

	source := runner.store.positions[testKey.String()]
	assert.True(t, source.QuantityOnHand.Equal(decimal.NewFromInt(20)), "el origen queda intacto")
	assert.Len(t, runner.store.txns, 1, "solo existe el asiento RECEIVE inicial")
}

// Propiedad de atomicidad: si la pata destino falla, el débito del origen se
// revierte por completo; ningún lector ve un traslado a medias.
func TestTransfer_FalloEnDestinoRevierteOrigen(t *testing.T) {
	runner := newFakeTxRunner()
	seedSource(t, runner, 20)
	runner.txnRepo.failOnType = entity.TxTypeTransferIn
	runner.txnRepo.failErr = errors.New("fallo inyectado en pata destino")

	uc := inventory.NewTransferUseCase(runner)
	_, err := uc.Transfer(context.Background(), testActor, transferInput(8))
	require.Error(t, err)

	source := runner.store.positions[testKey.String()]
	require.NotNil(t, source)
	assert.True(t, source.QuantityOnHand.Equal(decimal.NewFromInt(20)),
		"el origen nunca queda debitado si el destino falló")
	_, destExists := runner.store.positions[(entity.PositionKey{
		ProductID: "prod-res", WarehouseID: "wh-sur", LotNumber: "L-2026-001", LocationCode: "B-01",
	}).String()]
	assert.False(t, destExists, "la posición destino no debe haberse creado")
	assert.Len(t, runner.store.txns, 1, "no queda ningún asiento del traslado fallido")
}

// El orden de bloqueo es global y determinista: trasladar A→B y B→A bloquea
// las mismas llaves en el mismo orden (lexicográfico), evitando deadlocks.
func TestTransfer_OrdenDeBloqueoDeterminista(t *testing.T) {
	keyA := entity.PositionKey{ProductID: "p", WarehouseID: "wh-a", LotNumber: "L1", LocationCode: "X"}
	keyB := entity.PositionKey{ProductID: "p", WarehouseID: "wh-b", LotNumber: "L1", LocationCode: "X"}

	assert.Less(t, keyA.String(), keyB.String(),
		"las llaves tienen orden total; ambos sentidos del traslado bloquean primero la menor")
}
