package repository

import (
	"database/sql"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions against the PostgreSQL write store.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Create inserts the transaction in a single statement. The id is reserved
// from the table's sequence up front so the derived slug goes in with the
// insert itself: no other request can ever observe a blank-slug row, and a
// retried insert cannot leave a duplicate behind.
func (r *TransactionWriteRepository) Create(t *models.Transaction) error {
	var id int64
	if err := r.db.QueryRow(`SELECT nextval(pg_get_serial_sequence('transactions', 'id'))`).Scan(&id); err != nil {
		return fmt.Errorf("failed to reserve transaction id: %w", err)
	}
	t.ID = id
	t.Slug = fmt.Sprintf("transaction_%d", id)

	query := `
		INSERT INTO transactions
			(id, account_id, user_id, payment_method_id, transaction_type, category, amount, description, slug, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(query,
		t.ID, t.AccountID, t.UserID, t.PaymentMethodID,
		t.TransactionType, t.Category, t.Amount, t.Description,
		t.Slug, t.Created,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// UpdateBySlug replaces all mutable fields of the transaction identified by
// slug and returns the updated row.
func (r *TransactionWriteRepository) UpdateBySlug(slug string, t *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET account_id = $1, user_id = $2, payment_method_id = $3,
			transaction_type = $4, category = $5, amount = $6, description = $7
		WHERE slug = $8
		RETURNING id, created
	`
	updated := *t
	updated.Slug = slug
	err := r.db.QueryRow(query,
		t.AccountID, t.UserID, t.PaymentMethodID,
		t.TransactionType, t.Category, t.Amount, t.Description,
		slug,
	).Scan(&updated.ID, &updated.Created)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &updated, nil
}

// DeleteBySlug hard-deletes the transaction identified by slug.
func (r *TransactionWriteRepository) DeleteBySlug(slug string) error {
	res, err := r.db.Exec(`DELETE FROM transactions WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}
