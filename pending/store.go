package pending

import (
	"context"
	"errors"
	"time"

	"paystack-donation-api/models"
)

const (
	DefaultTTL  = 24 * time.Hour
	VerifiedTTL = 30 * 24 * time.Hour
)

var ErrNotFound = errors.New("pending donation not found")

// Store keeps donor details between /pay and the gateway callback, keyed by
// payment reference.
type Store interface {
	Save(ctx context.Context, donation models.PendingDonation) error
	Get(ctx context.Context, reference string) (*models.PendingDonation, error)
	Delete(ctx context.Context, reference string) error
	// MarkVerified reports true only for the first caller for a reference.
	MarkVerified(ctx context.Context, reference string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
