package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ganot/activitylog/internal/domain/activity"
	"github.com/ganot/activitylog/internal/domain/crm"
	"github.com/ganot/activitylog/internal/repository"
)

var _ activity.MembershipLookup = (*CustomerRepository)(nil)

// CustomerRepository stores customers and their company memberships
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a customer together with its company memberships
func (r *CustomerRepository) Create(ctx context.Context, c *crm.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO customers (
			id, first_name, last_name, name, primary_email, phone, avatar, position, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query,
		c.ID,
		c.FirstName,
		c.LastName,
		c.Name,
		c.PrimaryEmail,
		c.Phone,
		c.Avatar,
		c.Position,
		c.CreatedAt,
	); err != nil {
		return mapWriteError("create customer", err)
	}

	for _, companyID := range c.CompanyIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customer_companies (customer_id, company_id) VALUES (?, ?)`,
			c.ID, companyID,
		); err != nil {
			return mapWriteError("add customer to company", err)
		}
	}

	return tx.Commit()
}

// Get retrieves a customer by ID, including company memberships
func (r *CustomerRepository) Get(ctx context.Context, id string) (*crm.Customer, error) {
	query := `
		SELECT id, first_name, last_name, name, primary_email, phone, avatar, position, created_at
		FROM customers
		WHERE id = ?
	`

	var c crm.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Name,
		&c.PrimaryEmail,
		&c.Phone,
		&c.Avatar,
		&c.Position,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	companyIDs, err := r.queryIDs(ctx, `SELECT company_id FROM customer_companies WHERE customer_id = ? ORDER BY company_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer companies: %w", err)
	}
	c.CompanyIDs = companyIDs

	return &c, nil
}

// AddToCompany links an existing customer to an existing company
func (r *CustomerRepository) AddToCompany(ctx context.Context, customerID, companyID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO customer_companies (customer_id, company_id) VALUES (?, ?)`,
		customerID, companyID,
	)
	if err != nil {
		return mapWriteError("add customer to company", err)
	}
	return nil
}

// CustomerIDsByCompany lists the customers that belong to a company
func (r *CustomerRepository) CustomerIDsByCompany(ctx context.Context, companyID string) ([]string, error) {
	ids, err := r.queryIDs(ctx, `SELECT customer_id FROM customer_companies WHERE company_id = ? ORDER BY customer_id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company customers: %w", err)
	}
	return ids, nil
}

func (r *CustomerRepository) queryIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
