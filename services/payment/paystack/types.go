package paystack

import (
	"encoding/json"
	"fmt"
)

// envelope is the wrapper Paystack puts around every response body.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"` // kobo
	Currency    string            `json:"currency,omitempty"`
	Reference   string            `json:"reference,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

type Customer struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Transaction struct {
	ID              int64    `json:"id"`
	Status          string   `json:"status"`
	Reference       string   `json:"reference"`
	Amount          int64    `json:"amount"` // kobo
	Currency        string   `json:"currency"`
	GatewayResponse string   `json:"gateway_response"`
	PaidAt          string   `json:"paid_at"`
	Channel         string   `json:"channel"`
	Customer        Customer `json:"customer"`
}

type VerifyResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// Error is returned when Paystack answers but reports a failure, either with a
// non-2xx status or with status=false in the envelope.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("paystack error (HTTP %d): %s", e.StatusCode, e.Message)
}
