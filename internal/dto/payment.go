package dto

import "github.com/registrar-office/portal-api/internal/models"

// ProcessPaymentRequest records a fee payment against a document request.
type ProcessPaymentRequest struct {
	RequestID int64                `json:"requestId" validate:"required"`
	Amount    int64                `json:"amount" validate:"required,min=1"`
	Method    models.PaymentMethod `json:"method" validate:"required"`
}
