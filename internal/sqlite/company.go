package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/repository"
)

// CompanyRepository stores companies
type CompanyRepository struct {
	db *DB
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(db *DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts a new company
func (r *CompanyRepository) Create(ctx context.Context, c *crm.Company) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO companies (id, name, website, industry, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Website,
		c.Industry,
		c.Size,
		c.CreatedAt,
	); err != nil {
		return mapWriteError("create company", err)
	}
	return nil
}

// Get retrieves a company by ID
func (r *CompanyRepository) Get(ctx context.Context, id string) (*crm.Company, error) {
	query := `
		SELECT id, name, website, industry, size, created_at
		FROM companies
		WHERE id = ?
	`

	var c crm.Company
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Website,
		&c.Industry,
		&c.Size,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}
