package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"sync"

	"paystack-donation-api/models"
)

// HeaderRow is written verbatim when the ledger file is first created.
var HeaderRow = strings.Join(models.LedgerHeader, ", ") + "\n"

// Recorder persists verified donations.
type Recorder interface {
	Append(ctx context.Context, donation models.Donation) error
}

// CSVLedger is the append-only donation file. Appends are serialized within
// the process; nothing ever rewrites or removes rows.
type CSVLedger struct {
	path string
	mu   sync.Mutex
}

func NewCSVLedger(path string) (*CSVLedger, error) {
	if path == "" {
		return nil, errors.New("ledger path is required")
	}

	l := &CSVLedger{path: path}
	if err := l.ensureHeader(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *CSVLedger) ensureHeader() error {
	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("failed to create ledger %s: %w", l.path, err)
	}
	defer file.Close()

	if _, err := file.WriteString(HeaderRow); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	log.Printf("Created donation ledger at %s", l.path)
	return file.Sync()
}

func (l *CSVLedger) Append(_ context.Context, donation models.Donation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(donation.Row()); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger row: %w", err)
	}
	return file.Sync()
}

// Check reports whether the ledger is still writable, for health checks.
func (l *CSVLedger) Check() error {
	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return err
	}
	return file.Close()
}
