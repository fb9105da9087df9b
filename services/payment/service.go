package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"paystack-donation-api/models"
	"paystack-donation-api/services/payment/paystack"
)

const (
	DefaultCurrency      = "NGN"
	DefaultMinimumAmount = models.Naira(100)

	transactionSuccess = "success"
)

type Service struct {
	client   *paystack.Client
	minimum  models.Naira
	currency string
}

type InitializeParams struct {
	Email       string
	Amount      models.Naira
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

func NewPaymentService(client *paystack.Client, minimum models.Naira, currency string) *Service {
	if minimum <= 0 {
		minimum = DefaultMinimumAmount
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		client:   client,
		minimum:  minimum,
		currency: strings.ToUpper(currency),
	}
}

func (s *Service) MinimumAmount() models.Naira {
	return s.minimum
}

// Initialize starts a transaction with the gateway. Amounts below the minimum
// are rejected here and never reach the gateway.
func (s *Service) Initialize(ctx context.Context, params InitializeParams) (*paystack.InitializeData, error) {
	if params.Amount < s.minimum {
		return nil, fmt.Errorf("%w: got %s, minimum is %s", ErrAmountBelowMinimum, params.Amount, s.minimum)
	}
	currency := params.Currency
	if currency == "" {
		currency = s.currency
	}

	log.Printf("Initializing transaction %s for %s %s", params.Reference, currency, params.Amount)

	resp, err := s.client.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       params.Email,
		Amount:      int64(params.Amount.Kobo()),
		Currency:    currency,
		Reference:   params.Reference,
		CallbackURL: params.CallbackURL,
		Metadata:    params.Metadata,
	})
	if err != nil {
		return nil, wrapClientError("transaction initialization failed", err)
	}

	log.Printf("Transaction %s initialized: %s", params.Reference, resp.Message)
	return &resp.Data, nil
}

// Verify succeeds only when the envelope status is true and the transaction
// itself reports "success".
func (s *Service) Verify(ctx context.Context, reference string) (*paystack.Transaction, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrMissingReference
	}

	resp, err := s.client.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, wrapClientError("transaction verification failed", err)
	}

	if !resp.Status || resp.Data.Status != transactionSuccess {
		log.Printf("Transaction %s not successful: envelope=%v status=%q gateway_response=%q",
			reference, resp.Status, resp.Data.Status, resp.Data.GatewayResponse)
		message := resp.Data.GatewayResponse
		if message == "" {
			message = fmt.Sprintf("transaction status is %q", resp.Data.Status)
		}
		return &resp.Data, &GatewayError{Message: message, Err: ErrVerificationFailed}
	}

	return &resp.Data, nil
}

func wrapClientError(op string, err error) error {
	var apiErr *paystack.Error
	if errors.As(err, &apiErr) {
		return &GatewayError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
	}
	return fmt.Errorf("%s: %w", op, err)
}
