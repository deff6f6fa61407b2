package query

import (
	"context"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
)

const latestLimit = 10

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// TransactionPage is the {data, pagination} listing envelope.
type TransactionPage struct {
	Data       []models.Transaction `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// TransactionQueryService serves ledger reads. The repository primitives are
// unscoped; ownership scoping is applied here so the store stays testable
// independent of auth.
type TransactionQueryService struct {
	readRepo *repository.TransactionReadRepository
}

func NewTransactionQueryService(readRepo *repository.TransactionReadRepository) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo}
}

// ListTransactions pages through the ledger in insertion order. Admin
// principals see every row; everyone else only their own.
func (s *TransactionQueryService) ListTransactions(q cqrs.ListTransactionsQuery) (*TransactionPage, error) {
	ctx := context.Background()

	var (
		rows  []models.Transaction
		total int
		err   error
	)
	if q.Admin {
		rows, total, err = s.readRepo.List(ctx, q.Limit, q.Offset)
	} else {
		rows, total, err = s.readRepo.ListByUser(ctx, q.UserID, q.Limit, q.Offset)
	}
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Transaction{}
	}

	return &TransactionPage{
		Data:       rows,
		Pagination: Pagination{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

func (s *TransactionQueryService) GetTransaction(q cqrs.GetTransactionQuery) (*models.Transaction, error) {
	return s.readRepo.GetBySlug(context.Background(), q.Slug)
}

// LatestTransactions returns the 10 most recent rows, role-scoped.
func (s *TransactionQueryService) LatestTransactions(q cqrs.LatestTransactionsQuery) ([]models.Transaction, error) {
	ctx := context.Background()
	if q.Admin {
		return s.readRepo.Latest(ctx, latestLimit)
	}
	return s.readRepo.LatestByUser(ctx, q.UserID, latestLimit)
}
