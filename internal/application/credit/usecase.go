package credit

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribuidora-api/internal/domain"
	domaincredit "github.com/jhoicas/Distribuidora-api/internal/domain/credit"
	"github.com/jhoicas/Distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/Distribuidora-api/internal/domain/repository"
)

// UseCase evalúa la exposición de crédito de un cliente contra el feed de
// cartera. Solo lectura: facturas y pagos los administra el sistema de
// facturación externo.
type UseCase struct {
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.OpenInvoiceRepository
	// defaultPolicy aplica cuando el cliente no tiene política asignada.
	defaultPolicy string
}

// NewUseCase construye el evaluador.
func NewUseCase(customerRepo repository.CustomerRepository, invoiceRepo repository.OpenInvoiceRepository, defaultPolicy string) *UseCase {
	if defaultPolicy == "" {
		defaultPolicy = entity.CreditPolicyStrict
	}
	return &UseCase{customerRepo: customerRepo, invoiceRepo: invoiceRepo, defaultPolicy: defaultPolicy}
}

// Exposure deriva los buckets de antigüedad del cliente a la fecha dada.
func (uc *UseCase) Exposure(ctx context.Context, customerID string, asOf time.Time) (*entity.CreditExposure, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	invoices, err := uc.invoiceRepo.ListOpenByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	exp := domaincredit.AgingBuckets(customerID, invoices, asOf)
	exp.CreditLimit = customer.CreditLimit
	return &exp, nil
}

// CheckOrderResult decisión de crédito para una orden nueva, con la
// exposición que la sustenta.
type CheckOrderResult struct {
	domaincredit.CheckResult
	Policy   string
	Exposure entity.CreditExposure
}

// CheckOrder evalúa si la orden cabe en el cupo del cliente bajo su política:
// strict bloquea al exceder el cupo, soft solo advierte. La decisión es
// consultiva: quien crea la orden decide qué hacer con un warn.
func (uc *UseCase) CheckOrder(ctx context.Context, customerID string, orderTotal decimal.Decimal) (*CheckOrderResult, error) {
	if orderTotal.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	invoices, err := uc.invoiceRepo.ListOpenByCustomer(customerID)
	if err != nil {
		return nil, err
	}
	exp := domaincredit.AgingBuckets(customerID, invoices, time.Now())
	exp.CreditLimit = customer.CreditLimit

	policy := customer.CreditPolicy
	if policy == "" {
		policy = uc.defaultPolicy
	}
	return &CheckOrderResult{
		CheckResult: domaincredit.Check(customer.CreditLimit, exp.CurrentBalance, orderTotal, policy),
		Policy:      policy,
		Exposure:    exp,
	}, nil
}
