package query

import (
	"fmt"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
	"github.com/finledger/transactions-api/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is the login response body: the user (hash omitted), a signed
// bearer token, and its lifetime in seconds.
type LoginResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
}

// AuthQueryService handles login and current-user lookups. There is no
// command service for auth because these operations don't mutate state.
type AuthQueryService struct {
	userRepo *repository.UserRepository
	tokens   *token.Service
}

func NewAuthQueryService(userRepo *repository.UserRepository, tokens *token.Service) *AuthQueryService {
	return &AuthQueryService{userRepo: userRepo, tokens: tokens}
}

// Login resolves the username and compares the bcrypt hash. Unknown user and
// wrong password fail identically.
func (s *AuthQueryService) Login(q cqrs.LoginQuery) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(q.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(q.Password)) != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	signed, err := s.tokens.Issue(user.ID, user.Username, user.Admin)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResult{
		User:      user,
		Token:     signed,
		ExpiresIn: s.tokens.Lifetime(),
	}, nil
}

func (s *AuthQueryService) CurrentUser(id int64) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
