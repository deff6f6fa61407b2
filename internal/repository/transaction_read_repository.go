package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
	cache "github.com/finledger/transactions-api/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const transactionColumns = `id, account_id, user_id, payment_method_id, transaction_type, category, amount, description, slug, created`

// TransactionReadRepository handles all read operations for transactions.
// Single-row reads go through Redis first, falling back to PostgreSQL on a
// miss and warming the cache. Listings always hit PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *cache.ViewCache[models.Transaction]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: cache.NewViewCache[models.Transaction](redisClient, "transaction:view:", 0),
	}
}

// GetBySlug returns a transaction by attempting Redis first, then PostgreSQL.
func (r *TransactionReadRepository) GetBySlug(ctx context.Context, slug string) (*models.Transaction, error) {
	if view, ok := r.cache.Get(ctx, slug); ok {
		return view, nil
	}

	var t models.Transaction
	err := r.db.QueryRow(
		`SELECT `+transactionColumns+` FROM transactions WHERE slug = $1`, slug,
	).Scan(
		&t.ID, &t.AccountID, &t.UserID, &t.PaymentMethodID,
		&t.TransactionType, &t.Category, &t.Amount, &t.Description,
		&t.Slug, &t.Created,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// Warm the cache
	r.CacheTransactionView(ctx, &t)
	return &t, nil
}

// List returns a page of transactions in insertion order plus the unfiltered
// row count.
func (r *TransactionReadRepository) List(ctx context.Context, limit, offset int) ([]models.Transaction, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	rows, err := r.listRows(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByUser is List restricted to a single owner.
func (r *TransactionReadRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Transaction, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	rows, err := r.listRows(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Latest returns the n most recent transactions across all users.
func (r *TransactionReadRepository) Latest(ctx context.Context, n int) ([]models.Transaction, error) {
	return r.listRows(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY id DESC LIMIT $1`, n)
}

// LatestByUser returns the n most recent transactions owned by userID.
func (r *TransactionReadRepository) LatestByUser(ctx context.Context, userID int64, n int) ([]models.Transaction, error) {
	return r.listRows(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY id DESC LIMIT $2`, userID, n)
}

func (r *TransactionReadRepository) listRows(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.AccountID, &t.UserID, &t.PaymentMethodID,
			&t.TransactionType, &t.Category, &t.Amount, &t.Description,
			&t.Slug, &t.Created,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful write.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, t *models.Transaction) {
	r.cache.Set(ctx, t.Slug, t)
}

// InvalidateTransactionView removes the cached read model for a slug.
func (r *TransactionReadRepository) InvalidateTransactionView(ctx context.Context, slug string) {
	r.cache.Delete(ctx, slug)
}
