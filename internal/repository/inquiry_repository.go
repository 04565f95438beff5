package repository

import (
	"context"
	"database/sql"
	"fmt"

	"airspring/internal/domain"
)

// InquiryRepository defines the interface for the inquiry archive.
// The archive is write-only from the site; it is read in the database.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
}

type inquiryRepository struct {
	db *sql.DB
}

// NewInquiryRepository creates a new instance of InquiryRepository
func NewInquiryRepository(db *sql.DB) InquiryRepository {
	return &inquiryRepository{db: db}
}

// Create inserts an archived inquiry using parameterized queries
func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, name, phone, marka, vin, message, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		inquiry.ID,
		inquiry.Name,
		inquiry.Phone,
		inquiry.Marka,
		inquiry.VIN,
		inquiry.Message,
		inquiry.Status,
		inquiry.Error,
		inquiry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}

	return nil
}
