package payment

import (
	"errors"
	"fmt"
)

var (
	ErrAmountBelowMinimum = errors.New("amount is below the minimum donation")
	ErrMissingReference   = errors.New("payment reference is required")
	ErrVerificationFailed = errors.New("payment verification failed")
)

// GatewayError carries a failure reported by the payment provider itself, as
// opposed to a transport or decoding failure.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("gateway error: %s", e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
