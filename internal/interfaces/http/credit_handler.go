package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribuidora-api/internal/application/credit"
	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
)

// CreditHandler expone la exposición de crédito y el chequeo de órdenes.
type CreditHandler struct {
	uc *credit.UseCase
}

// NewCreditHandler construye el handler inyectando el evaluador.
func NewCreditHandler(uc *credit.UseCase) *CreditHandler {
	return &CreditHandler{uc: uc}
}

// Exposure godoc
// @Summary      Exposición de crédito del cliente
// @Description  Buckets de antigüedad de la cartera abierta (current, 1-30,
// @Description  31-60, 61-90, 90+) derivados bajo demanda del feed de facturas.
// @Tags         credit
// @Produce      json
// @Security     BearerAuth
// @Param        customerID  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CreditExposureResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credit/{customerID}/exposure [get]
func (h *CreditHandler) Exposure(c *fiber.Ctx) error {
	exp, err := h.uc.Exposure(c.Context(), c.Params("customerID"), time.Now())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toExposureResponse(*exp))
}

// Check godoc
// @Summary      Evaluar una orden contra el cupo del cliente
// @Description  Proyecta el saldo con la orden nueva: allow si cabe en el cupo,
// @Description  warn si lo excede bajo política soft, block bajo strict. Un
// @Description  block responde 422 con la evaluación completa para que quien
// @Description  crea la orden vea los números.
// @Tags         credit
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        customerID  path  string                 true  "ID del cliente"
// @Param        body        body  dto.CreditCheckRequest true  "Total de la orden"
// @Success      200  {object}  dto.CreditCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.CreditCheckResponse
// @Router       /api/credit/{customerID}/check [post]
func (h *CreditHandler) Check(c *fiber.Ctx) error {
	var in dto.CreditCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.CheckOrder(c.Context(), c.Params("customerID"), in.OrderTotal)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.CreditCheckResponse{
		Decision:         res.Decision,
		Policy:           res.Policy,
		CreditLimit:      res.CreditLimit,
		CurrentBalance:   res.CurrentBalance,
		ProjectedBalance: res.ProjectedBalance,
		AvailableCredit:  res.AvailableCredit,
		Exposure:         toExposureResponse(res.Exposure),
	}
	if res.Decision == entity.CreditDecisionBlock {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(out)
	}
	return c.JSON(out)
}

func toExposureResponse(exp entity.CreditExposure) dto.CreditExposureResponse {
	return dto.CreditExposureResponse{
		CustomerID:     exp.CustomerID,
		Current:        exp.Current,
		Days1To30:      exp.Days1To30,
		Days31To60:     exp.Days31To60,
		Days61To90:     exp.Days61To90,
		Days90Plus:     exp.Days90Plus,
		Total:          exp.Total,
		CreditLimit:    exp.CreditLimit,
		CurrentBalance: exp.CurrentBalance,
	}
}
