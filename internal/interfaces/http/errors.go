package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Distribuidora-api/internal/application/dto"
	"github.com/jhoicas/Distribuidora-api/internal/domain"
)

// respondDomainError traduce los errores sentinela del dominio a HTTP:
//
//	400  entrada inválida
//	404  no encontrado
//	409  invariante violada o estado incompatible
//	409  contención de bloqueo (retryable: el cliente debe reintentar)
//	422  decisión de política (tolerancia de peso, bloqueo de crédito)
func respondDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})

	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidExpectedWeight):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_EXPECTED_WEIGHT", Message: err.Error()})
	case errors.Is(err, domain.ErrPieceSumMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PIECE_SUM_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrPieceRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PIECE_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotCatchWeight):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOT_CATCH_WEIGHT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransferDestination):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DESTINATION", Message: err.Error()})

	case errors.Is(err, domain.ErrInsufficientAvailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientAllocated):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_ALLOCATED", Message: err.Error()})
	case errors.Is(err, domain.ErrOverRelease):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVER_RELEASE", Message: err.Error()})
	case errors.Is(err, domain.ErrNegativeQuantity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NEGATIVE_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientAcrossLots):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_ACROSS_LOTS", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyBilled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_BILLED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotRejected):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_REJECTED", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})

	case errors.Is(err, domain.ErrLockContention):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOCK_CONTENTION", Message: err.Error(), Retryable: true})

	case errors.Is(err, domain.ErrToleranceExceeded):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "TOLERANCE_EXCEEDED", Message: err.Error()})
	case errors.Is(err, domain.ErrCreditLimitExceeded):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CREDIT_BLOCKED", Message: err.Error()})

	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
