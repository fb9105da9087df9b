package payment

import (
	"context"

	"paystack-donation-api/models"
	"paystack-donation-api/services/payment/paystack"
)

// Gateway is what the donation handlers need from a payment provider.
type Gateway interface {
	Initialize(ctx context.Context, params InitializeParams) (*paystack.InitializeData, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
	MinimumAmount() models.Naira
}
