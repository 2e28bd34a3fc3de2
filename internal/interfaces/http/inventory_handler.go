package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	appinv "github.com/jhoicas/Distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Distribuidora-api/internal/domain/inventory"
)

// InventoryHandler expone el libro de inventario, los traslados y las
// consultas de lotes (FEFO, vencimientos).
type InventoryHandler struct {
	ledger   *appinv.LedgerUseCase
	transfer *appinv.TransferUseCase
	lots     *appinv.LotUseCase
}

// NewInventoryHandler construye el handler inyectando los casos de uso.
func NewInventoryHandler(ledger *appinv.LedgerUseCase, transfer *appinv.TransferUseCase, lots *appinv.LotUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, transfer: transfer, lots: lots}
}

// Receive godoc
// @Summary      Recepcionar mercancía
// @Description  Crea o actualiza la posición (producto, bodega, lote, ubicación),
// @Description  recalcula el costo promedio ponderado y registra el asiento RECEIVE.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ReceiveRequest  true  "Recepción"
// @Success      200   {object}  dto.PositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no presente en el token"})
	}
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	pos, err := h.ledger.Receive(c.Context(), actor, appinv.ReceiveInput{
		Key: entity.PositionKey{
			ProductID:    in.ProductID,
			WarehouseID:  in.WarehouseID,
			LotNumber:    in.LotNumber,
			LocationCode: in.LocationCode,
		},
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ProductionDate:  in.ProductionDate,
		ExpiryDate:      in.ExpiryDate,
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Allocate godoc
// @Summary      Reservar cantidad para una orden
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AllocateRequest  true  "Reserva"
// @Success      200   {object}  dto.PositionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/allocate [post]
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	pos, err := h.ledger.Allocate(c.Context(), positionKeyFromAllocate(in), in.Quantity)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Release godoc
// @Summary      Liberar cantidad reservada
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AllocateRequest  true  "Liberación"
// @Success      200   {object}  dto.PositionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	pos, err := h.ledger.Release(c.Context(), positionKeyFromAllocate(in), in.Quantity)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Ship godoc
// @Summary      Despachar cantidad reservada
// @Description  Descuenta en mano y reservado y registra el asiento SHIP al
// @Description  costo promedio vigente. Exige reserva previa suficiente.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ShipRequest  true  "Despacho"
// @Success      200   {object}  dto.PositionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/ship [post]
func (h *InventoryHandler) Ship(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no presente en el token"})
	}
	var in dto.ShipRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	pos, err := h.ledger.Ship(c.Context(), actor, appinv.ShipInput{
		Key: entity.PositionKey{
			ProductID:    in.ProductID,
			WarehouseID:  in.WarehouseID,
			LotNumber:    in.LotNumber,
			LocationCode: in.LocationCode,
		},
		Quantity:        in.Quantity,
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Adjust godoc
// @Summary      Ajustar existencia (cantidad con signo)
// @Description  Positivo registra ADJUST_IN (con recosteo si trae unit_cost),
// @Description  negativo registra ADJUST_OUT. Nunca deja existencia negativa ni
// @Description  por debajo de lo reservado.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AdjustRequest  true  "Ajuste"
// @Success      200   {object}  dto.PositionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no presente en el token"})
	}
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	pos, err := h.ledger.Adjust(c.Context(), actor, appinv.AdjustInput{
		Key: entity.PositionKey{
			ProductID:    in.ProductID,
			WarehouseID:  in.WarehouseID,
			LotNumber:    in.LotNumber,
			LocationCode: in.LocationCode,
		},
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		ReferenceType:   in.ReferenceType,
		ReferenceNumber: in.ReferenceNumber,
		Reason:          in.Reason,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// Transfer godoc
// @Summary      Trasladar existencia entre bodegas
// @Description  Débito en origen y crédito en destino en una sola transacción.
// @Description  Con contención de bloqueos responde 409 LOCK_CONTENTION con
// @Description  retryable:true; el cliente debe reintentar con backoff.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no presente en el token"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.transfer.Transfer(c.Context(), actor, appinv.TransferInput{
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		LotNumber:       in.LotNumber,
		FromLocation:    in.FromLocation,
		ToLocation:      in.ToLocation,
		Quantity:        in.Quantity,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.TransferResponse{
		TransferID: res.TransferID,
		Source:     *toPositionResponse(res.Source),
		Dest:       *toPositionResponse(res.Dest),
	})
}

// GetPosition godoc
// @Summary      Consultar una posición de inventario
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id     query  string  true   "Producto"
// @Param        warehouse_id   query  string  true   "Bodega"
// @Param        lot_number     query  string  false  "Lote"
// @Param        location_code  query  string  false  "Ubicación"
// @Success      200  {object}  dto.PositionResponse
// @Router       /api/inventory/positions [get]
func (h *InventoryHandler) GetPosition(c *fiber.Ctx) error {
	key, ok := positionKeyFromQuery(c)
	if !ok {
		return respondMissingPositionKey(c)
	}
	pos, err := h.ledger.Query(c.Context(), key)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPositionResponse(pos))
}

// History godoc
// @Summary      Historial de asientos de una posición
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id     query  string  true   "Producto"
// @Param        warehouse_id   query  string  true   "Bodega"
// @Param        lot_number     query  string  false  "Lote"
// @Param        location_code  query  string  false  "Ubicación"
// @Param        from           query  string  false  "Desde (RFC3339)"
// @Param        to             query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/inventory/positions/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	key, ok := positionKeyFromQuery(c)
	if !ok {
		return respondMissingPositionKey(c)
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	limit, offset := pageParams(c)
	txns, lookupErr := h.ledger.History(c.Context(), key, from, to, limit, offset)
	if lookupErr != nil {
		return respondDomainError(c, lookupErr)
	}
	out := make([]dto.TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, toTransactionResponse(txn))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar posición contra el log de asientos
// @Description  La suma de los asientos de la posición debe reproducir la
// @Description  existencia en mano; in_balance en false indica deriva.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id     query  string  true   "Producto"
// @Param        warehouse_id   query  string  true   "Bodega"
// @Param        lot_number     query  string  false  "Lote"
// @Param        location_code  query  string  false  "Ubicación"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/inventory/positions/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	key, ok := positionKeyFromQuery(c)
	if !ok {
		return respondMissingPositionKey(c)
	}
	res, lookupErr := h.ledger.Reconcile(c.Context(), key)
	if lookupErr != nil {
		return respondDomainError(c, lookupErr)
	}
	return c.JSON(dto.ReconcileResponse{
		ProductID:    res.Key.ProductID,
		WarehouseID:  res.Key.WarehouseID,
		LotNumber:    res.Key.LotNumber,
		LocationCode: res.Key.LocationCode,
		OnHand:       res.OnHand,
		LedgerSum:    res.LedgerSum,
		Difference:   res.Difference,
		InBalance:    res.InBalance,
	})
}

// PickPlan godoc
// @Summary      Plan de picking FEFO
// @Description  Propone de qué lotes consumir, primero lo próximo a vencer. El
// @Description  plan no reserva: el consumo real pasa por allocate/ship.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Bodega (vacío = todas)"
// @Param        quantity      query  string  true   "Cantidad requerida"
// @Success      200  {array}  dto.PickPlanLine
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/pick-plan [get]
func (h *InventoryHandler) PickPlan(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	plan, planErr := h.lots.PickPlan(c.Context(), productID, c.Query("warehouse_id"), qty)
	if planErr != nil {
		return respondDomainError(c, planErr)
	}
	out := make([]dto.PickPlanLine, 0, len(plan))
	for _, line := range plan {
		out = append(out, dto.PickPlanLine{
			WarehouseID:  line.Key.WarehouseID,
			LotNumber:    line.Key.LotNumber,
			LocationCode: line.Key.LocationCode,
			Quantity:     line.Quantity,
			ExpiryDate:   line.Expiry,
		})
	}
	return c.JSON(out)
}

// Expiring godoc
// @Summary      Posiciones próximas a vencer
// @Description  Existencia que vence dentro de la ventana de alerta (incluye lo
// @Description  ya vencido), de más urgente a menos.
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        warehouse_id  query  string  true   "Bodega"
// @Param        days          query  int     false  "Ventana en días (default configurada)"
// @Success      200  {array}  dto.ExpiryAlertResponse
// @Router       /api/inventory/expiring [get]
func (h *InventoryHandler) Expiring(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	days := c.QueryInt("days", 0)
	limit, offset := pageParams(c)
	alerts, err := h.lots.Expiring(c.Context(), warehouseID, days, limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.ExpiryAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toExpiryAlertResponse(a))
	}
	return c.JSON(out)
}

// ─── Mapeo entidad → DTO ─────────────────────────────────────────────────────

func positionKeyFromAllocate(in dto.AllocateRequest) entity.PositionKey {
	return entity.PositionKey{
		ProductID:    in.ProductID,
		WarehouseID:  in.WarehouseID,
		LotNumber:    in.LotNumber,
		LocationCode: in.LocationCode,
	}
}

// positionKeyFromQuery arma la clave de posición desde el query string. El
// segundo valor es false si faltan los campos obligatorios; responder el 400
// es responsabilidad del handler.
func positionKeyFromQuery(c *fiber.Ctx) (entity.PositionKey, bool) {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return entity.PositionKey{}, false
	}
	return entity.PositionKey{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		LotNumber:    c.Query("lot_number"),
		LocationCode: c.Query("location_code"),
	}, true
}

func respondMissingPositionKey(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s debe ser RFC3339", name)
	}
	return &t, nil
}

func toPositionResponse(p *entity.InventoryPosition) *dto.PositionResponse {
	if p == nil {
		return nil
	}
	return &dto.PositionResponse{
		ProductID:         p.Key.ProductID,
		WarehouseID:       p.Key.WarehouseID,
		LotNumber:         p.Key.LotNumber,
		LocationCode:      p.Key.LocationCode,
		QuantityOnHand:    p.QuantityOnHand,
		QuantityAllocated: p.QuantityAllocated,
		QuantityAvailable: p.Available(),
		AverageCost:       p.AverageCost,
		LastCost:          p.LastCost,
		ProductionDate:    p.ProductionDate,
		ExpiryDate:        p.ExpiryDate,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toTransactionResponse(t *entity.InventoryTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		TransferID:      t.TransferID,
		Type:            t.Type,
		Quantity:        t.Quantity,
		UnitCost:        t.UnitCost,
		TotalCost:       t.TotalCost,
		ReferenceType:   t.ReferenceType,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

func toExpiryAlertResponse(a domaininv.ExpiryAlert) dto.ExpiryAlertResponse {
	return dto.ExpiryAlertResponse{
		ProductID:    a.Key.ProductID,
		WarehouseID:  a.Key.WarehouseID,
		LotNumber:    a.Key.LotNumber,
		LocationCode: a.Key.LocationCode,
		Quantity:     a.Quantity,
		ExpiryDate:   a.Expiry,
		DaysToExpiry: a.DaysToExpiry,
	}
}
