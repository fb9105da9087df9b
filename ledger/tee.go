package ledger

import (
	"context"
	"errors"

	"paystack-donation-api/models"
)

type tee []Recorder

// Tee appends to every recorder in order. A failing recorder does not stop
// the others; all errors are returned joined.
func Tee(recorders ...Recorder) Recorder {
	var out tee
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (t tee) Append(ctx context.Context, donation models.Donation) error {
	var errs []error
	for _, r := range t {
		if err := r.Append(ctx, donation); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
