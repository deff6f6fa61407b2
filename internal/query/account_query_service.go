package query

import (
	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
)

type AccountQueryService struct {
	accountRepo *repository.AccountRepository
}

func NewAccountQueryService(accountRepo *repository.AccountRepository) *AccountQueryService {
	return &AccountQueryService{accountRepo: accountRepo}
}

// ListAccounts applies the same ownership rule as transactions: admins see
// all accounts, everyone else only their own.
func (s *AccountQueryService) ListAccounts(q cqrs.ListAccountsQuery) ([]models.Account, error) {
	if q.Admin {
		return s.accountRepo.List()
	}
	return s.accountRepo.ListByUserID(q.UserID)
}

func (s *AccountQueryService) GetAccount(slug string) (*models.Account, error) {
	return s.accountRepo.GetBySlug(slug)
}
