package repository

import (
	"database/sql"
	"fmt"

	"github.com/finledger/transactions-api/internal/models"
)

type BudgetRepository struct {
	db *sql.DB
}

func NewBudgetRepository(db *sql.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) List() ([]models.Budget, error) {
	rows, err := r.db.Query(`SELECT id, user_id, category, monthly_limit, created, slug FROM budgets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(
			&budget.ID, &budget.UserID, &budget.Category,
			&budget.MonthlyLimit, &budget.Created, &budget.Slug,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	return budgets, nil
}

func (r *BudgetRepository) GetBySlug(slug string) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.QueryRow(
		`SELECT id, user_id, category, monthly_limit, created, slug FROM budgets WHERE slug = $1`, slug,
	).Scan(
		&budget.ID, &budget.UserID, &budget.Category,
		&budget.MonthlyLimit, &budget.Created, &budget.Slug,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("budget not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}
