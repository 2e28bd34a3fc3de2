package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribuidora-api/internal/application/catchweight"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// CatchWeightHandler expone la captura de peso variable, el override de
// capturas rechazadas y el puente de facturación.
type CatchWeightHandler struct {
	uc *catchweight.UseCase
}

// NewCatchWeightHandler construye el handler inyectando el motor de captura.
func NewCatchWeightHandler(uc *catchweight.UseCase) *CatchWeightHandler {
	return &CatchWeightHandler{uc: uc}
}

// Capture godoc
// @Summary      Registrar captura de peso variable
// @Description  Peso esperado vs real contra un documento de referencia. Dentro
// @Description  del umbral de auto-aceptación queda ACCEPTED; dentro de la
// @Description  tolerancia del producto, ACCEPTED_WITH_WARNING; fuera de ella
// @Description  responde 422 con la captura REJECTED persistida para la ruta
// @Description  de aprobación.
// @Tags         catch-weight
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CaptureRequest  true  "Captura"
// @Success      201   {object}  dto.CaptureResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.CaptureRejectedResponse
// @Router       /api/catch-weight/captures [post]
func (h *CatchWeightHandler) Capture(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no presente en el token"})
	}
	var in dto.CaptureRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.ReferenceType == "" || in.ReferenceID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, reference_type, reference_id y warehouse_id son requeridos"})
	}
	pieces := make([]catchweight.PieceInput, 0, len(in.Pieces))
	for _, p := range in.Pieces {
		pieces = append(pieces, catchweight.PieceInput{Weight: p.Weight, Barcode: p.Barcode, Notes: p.Notes})
	}
	entry, err := h.uc.Capture(c.Context(), actor, catchweight.CaptureInput{
		ProductID:      in.ProductID,
		ReferenceType:  in.ReferenceType,
		ReferenceID:    in.ReferenceID,
		WarehouseID:    in.WarehouseID,
		LotNumber:      in.LotNumber,
		LocationCode:   in.LocationCode,
		ExpectedWeight: in.ExpectedWeight,
		ActualWeight:   in.ActualWeight,
		UnitCost:       in.UnitCost,
		ExpiryDate:     in.ExpiryDate,
		Pieces:         pieces,
	})
	if err != nil {
		// La captura rechazada se persistió: se devuelve junto con el 422 para
		// que el cliente pueda disparar el override.
		if errors.Is(err, domain.ErrToleranceExceeded) && entry != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.CaptureRejectedResponse{
				Code:    "TOLERANCE_EXCEEDED",
				Message: err.Error(),
				Capture: toCaptureResponse(entry),
			})
		}
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCaptureResponse(entry))
}

// ListByReference godoc
// @Summary      Listar capturas por documento de referencia
// @Tags         catch-weight
// @Produce      json
// @Security     BearerAuth
// @Param        product_id      query  string  true  "Producto"
// @Param        reference_type  query  string  true  "RECEIVING | SALES_ORDER | PICK_LIST | ADJUSTMENT"
// @Param        reference_id    query  string  true  "Documento de referencia"
// @Success      200  {array}  dto.CaptureResponse
// @Router       /api/catch-weight/captures [get]
func (h *CatchWeightHandler) ListByReference(c *fiber.Ctx) error {
	entries, err := h.uc.ListByReference(c.Context(), c.Query("product_id"), c.Query("reference_type"), c.Query("reference_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.CaptureResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCaptureResponse(e))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Consultar una captura
// @Tags         catch-weight
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la captura"
// @Success      200  {object}  dto.CaptureResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catch-weight/captures/{id} [get]
func (h *CatchWeightHandler) GetByID(c *fiber.Ctx) error {
	entry, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toCaptureResponse(entry))
}

// Override godoc
// @Summary      Aprobar una captura rechazada
// @Description  Solo supervisor o admin. Publica el efecto en el libro con los
// @Description  pesos ya capturados y marca la captura como OVERRIDDEN.
// @Tags         catch-weight
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la captura"
// @Success      200  {object}  dto.CaptureResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/catch-weight/captures/{id}/override [post]
func (h *CatchWeightHandler) Override(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id no presente en el token"})
	}
	entry, err := h.uc.Override(c.Context(), actor, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toCaptureResponse(entry))
}

// MarkBilled godoc
// @Summary      Marcar captura como facturada
// @Description  Idempotente: la primera llamada marca, las siguientes responden
// @Description  409 ALREADY_BILLED sin doble efecto.
// @Tags         catch-weight
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la captura"
// @Success      204  "facturada"
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/catch-weight/captures/{id}/billed [post]
func (h *CatchWeightHandler) MarkBilled(c *fiber.Ctx) error {
	if err := h.uc.MarkAsBilled(c.Context(), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BillingAdjustment godoc
// @Summary      Delta de facturación por varianza de peso
// @Description  varianza × precio del producto: positivo es cargo adicional,
// @Description  negativo es crédito al cliente. Consulta pura, no muta nada.
// @Tags         catch-weight
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la captura"
// @Success      200  {object}  dto.BillingAdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catch-weight/captures/{id}/billing-adjustment [get]
func (h *CatchWeightHandler) BillingAdjustment(c *fiber.Ctx) error {
	entryID := c.Params("id")
	adjustment, err := h.uc.BillingAdjustment(c.Context(), entryID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.BillingAdjustmentResponse{EntryID: entryID, Adjustment: adjustment})
}

func toCaptureResponse(e *entity.CatchWeightEntry) dto.CaptureResponse {
	out := dto.CaptureResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		ReferenceType:   e.ReferenceType,
		ReferenceID:     e.ReferenceID,
		WarehouseID:     e.WarehouseID,
		LotNumber:       e.LotNumber,
		LocationCode:    e.LocationCode,
		ExpectedWeight:  e.ExpectedWeight,
		ActualWeight:    e.ActualWeight,
		VarianceWeight:  e.VarianceWeight,
		VariancePercent: e.VariancePercent,
		Unit:            e.Unit,
		Status:          e.Status,
		CapturedBy:      e.CapturedBy,
		CapturedAt:      e.CapturedAt,
		OverriddenBy:    e.OverriddenBy,
		OverriddenAt:    e.OverriddenAt,
		IsBilled:        e.IsBilled,
		BilledAt:        e.BilledAt,
	}
	for _, p := range e.Pieces {
		out.Pieces = append(out.Pieces, dto.CapturePieceResponse{
			PieceNumber: p.PieceNumber,
			Weight:      p.Weight,
			Barcode:     p.Barcode,
			Notes:       p.Notes,
		})
	}
	return out
}
