package repository

import (
	"database/sql"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) List() ([]models.Account, error) {
	return r.list(`SELECT id, user_id, account_name, balance, created, slug FROM accounts ORDER BY id`)
}

func (r *AccountRepository) ListByUserID(userID int64) ([]models.Account, error) {
	return r.list(`SELECT id, user_id, account_name, balance, created, slug FROM accounts WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *AccountRepository) list(query string, args ...any) ([]models.Account, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(
			&account.ID, &account.UserID, &account.AccountName,
			&account.Balance, &account.Created, &account.Slug,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func (r *AccountRepository) GetBySlug(slug string) (*models.Account, error) {
	var account models.Account
	err := r.db.QueryRow(
		`SELECT id, user_id, account_name, balance, created, slug FROM accounts WHERE slug = $1`, slug,
	).Scan(
		&account.ID, &account.UserID, &account.AccountName,
		&account.Balance, &account.Created, &account.Slug,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// Exists reports whether an account row with the given id is present.
func (r *AccountRepository) Exists(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// ApplyBalanceChange adjusts an account balance by delta. Used by the
// balance projector when transaction events arrive.
func (r *AccountRepository) ApplyBalanceChange(id int64, delta float64) error {
	res, err := r.db.Exec(`UPDATE accounts SET balance = balance + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account not found")
	}
	return nil
}
