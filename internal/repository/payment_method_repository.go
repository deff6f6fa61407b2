package repository

import (
	"database/sql"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
)

type PaymentMethodRepository struct {
	db *sql.DB
}

func NewPaymentMethodRepository(db *sql.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

func (r *PaymentMethodRepository) List() ([]models.PaymentMethod, error) {
	rows, err := r.db.Query(`SELECT id, name, slug FROM payment_methods ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var method models.PaymentMethod
		if err := rows.Scan(&method.ID, &method.Name, &method.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, method)
	}
	return methods, nil
}

func (r *PaymentMethodRepository) GetBySlug(slug string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.QueryRow(`SELECT id, name, slug FROM payment_methods WHERE slug = $1`, slug).
		Scan(&method.ID, &method.Name, &method.Slug)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment method not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment method: %w", err)
	}
	return &method, nil
}

// Exists reports whether a payment method row with the given id is present.
func (r *PaymentMethodRepository) Exists(id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM payment_methods WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payment method existence: %w", err)
	}
	return exists, nil
}
