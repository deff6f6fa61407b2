package query

import (
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
)

// ReferenceQueryService serves the open reference-data reads: users,
// categories, budgets and payment methods, keyed by slug.
type ReferenceQueryService struct {
	userRepo          *repository.UserRepository
	categoryRepo      *repository.CategoryRepository
	budgetRepo        *repository.BudgetRepository
	paymentMethodRepo *repository.PaymentMethodRepository
}

func NewReferenceQueryService(
	userRepo *repository.UserRepository,
	categoryRepo *repository.CategoryRepository,
	budgetRepo *repository.BudgetRepository,
	paymentMethodRepo *repository.PaymentMethodRepository,
) *ReferenceQueryService {
	return &ReferenceQueryService{
		userRepo:          userRepo,
		categoryRepo:      categoryRepo,
		budgetRepo:        budgetRepo,
		paymentMethodRepo: paymentMethodRepo,
	}
}

func (s *ReferenceQueryService) Users() ([]models.User, error) {
	return s.userRepo.List()
}

func (s *ReferenceQueryService) User(slug string) (*models.User, error) {
	return s.userRepo.GetBySlug(slug)
}

func (s *ReferenceQueryService) Categories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

func (s *ReferenceQueryService) Category(slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(slug)
}

func (s *ReferenceQueryService) Budgets() ([]models.Budget, error) {
	return s.budgetRepo.List()
}

func (s *ReferenceQueryService) Budget(slug string) (*models.Budget, error) {
	return s.budgetRepo.GetBySlug(slug)
}

func (s *ReferenceQueryService) PaymentMethods() ([]models.PaymentMethod, error) {
	return s.paymentMethodRepo.List()
}

func (s *ReferenceQueryService) PaymentMethod(slug string) (*models.PaymentMethod, error) {
	return s.paymentMethodRepo.GetBySlug(slug)
}
