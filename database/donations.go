package database

import (
	"context"
	"fmt"
	"time"

	"paystack-donation-api/models"
)

const createDonationsTable = `
    CREATE TABLE IF NOT EXISTS donations (
        id BIGINT AUTO_INCREMENT PRIMARY KEY,
        created_at DATETIME NOT NULL,
        name VARCHAR(255) NOT NULL,
        email VARCHAR(255) NOT NULL,
        amount BIGINT NOT NULL,
        reference VARCHAR(100) NOT NULL,
        status VARCHAR(20) NOT NULL,
        INDEX idx_donations_reference (reference)
    )`

// Append mirrors a ledger row into the donations table.
func (c *Connection) Append(ctx context.Context, donation models.Donation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx, `
        INSERT INTO donations (created_at, name, email, amount, reference, status)
        VALUES (?, ?, ?, ?, ?, ?)
    `, donation.Timestamp, donation.Name, donation.Email, int64(donation.Amount),
		donation.Reference, string(donation.Status))
	if err != nil {
		return fmt.Errorf("error inserting donation %s: %w", donation.Reference, err)
	}
	return nil
}
