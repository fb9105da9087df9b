package models

import "time"

const (
	TimestampLayout = "2006-01-02 15:04:05"
	UnknownDonor    = "Unknown"
)

type DonationStatus string

// Success is the only status ever written to the ledger.
const DonationStatusSuccess DonationStatus = "Success"

// Donation is one verified donation as recorded in the ledger.
type Donation struct {
	Timestamp time.Time      `json:"timestamp"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Amount    Naira          `json:"amount"`
	Reference string         `json:"reference"`
	Status    DonationStatus `json:"status"`
}

// LedgerHeader names the six ledger columns, in row order.
var LedgerHeader = []string{"Timestamp", "Name", "Email", "Amount", "Reference", "Status"}

func (d Donation) Row() []string {
	return []string{
		d.Timestamp.Format(TimestampLayout),
		d.Name,
		d.Email,
		d.Amount.String(),
		d.Reference,
		string(d.Status),
	}
}

// PendingDonation holds what the donor submitted at /pay until the gateway confirms it.
type PendingDonation struct {
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Amount    Naira     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// DonorNameOrUnknown mirrors how anonymous donations are labelled in the ledger.
func DonorNameOrUnknown(name string) string {
	if name == "" {
		return UnknownDonor
	}
	return name
}
