package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// Errores del libro de inventario (invariantes de cantidad).
var (
	ErrInsufficientAvailable = errors.New("cantidad disponible insuficiente")
	ErrOverRelease           = errors.New("liberación mayor a la cantidad reservada")
	ErrNegativeQuantity      = errors.New("la operación dejaría existencia negativa")
	ErrInsufficientAllocated = errors.New("cantidad reservada insuficiente para despachar")
)

// Errores de traslados entre bodegas.
var (
	ErrInvalidTransferDestination = errors.New("bodega destino igual a bodega origen")
	// ErrLockContention es reintentable: el caller debe re-consultar la posición
	// y reintentar con backoff.
	ErrLockContention = errors.New("no se pudo obtener el bloqueo de la posición")
)

// Errores de peso capturado (catch weight).
var (
	ErrInvalidExpectedWeight = errors.New("peso esperado debe ser mayor a cero")
	ErrPieceSumMismatch      = errors.New("la suma de piezas no coincide con el peso real")
	ErrPieceRequired         = errors.New("el producto exige desglose de piezas")
	ErrNotCatchWeight        = errors.New("el producto no es de peso variable")
	ErrToleranceExceeded     = errors.New("varianza fuera de tolerancia, requiere aprobación")
	ErrNotRejected           = errors.New("solo capturas rechazadas admiten override")
	ErrAlreadyBilled         = errors.New("la captura ya fue facturada")
)

// Errores de lotes y crédito.
var (
	ErrInsufficientAcrossLots = errors.New("existencia total en lotes insuficiente")
	ErrCreditLimitExceeded    = errors.New("cupo de crédito excedido")
)
