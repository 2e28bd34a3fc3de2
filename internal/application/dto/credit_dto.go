package dto

import "github.com/shopspring/decimal"

// CreditCheckRequest body para POST /api/credit/:customerID/check.
type CreditCheckRequest struct {
	OrderTotal decimal.Decimal `json:"order_total"`
}

// CreditExposureResponse exposición de crédito por buckets de antigüedad.
type CreditExposureResponse struct {
	CustomerID     string          `json:"customer_id"`
	Current        decimal.Decimal `json:"current"`
	Days1To30      decimal.Decimal `json:"days_1_30"`
	Days31To60     decimal.Decimal `json:"days_31_60"`
	Days61To90     decimal.Decimal `json:"days_61_90"`
	Days90Plus     decimal.Decimal `json:"days_90_plus"`
	Total          decimal.Decimal `json:"total"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
}

// CreditCheckResponse decisión del evaluador para una orden nueva.
type CreditCheckResponse struct {
	Decision         string                 `json:"decision"` // allow | warn | block
	Policy           string                 `json:"policy"`
	CreditLimit      decimal.Decimal        `json:"credit_limit"`
	CurrentBalance   decimal.Decimal        `json:"current_balance"`
	ProjectedBalance decimal.Decimal        `json:"projected_balance"`
	AvailableCredit  decimal.Decimal        `json:"available_credit"`
	Exposure         CreditExposureResponse `json:"exposure"`
}
