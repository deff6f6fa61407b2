package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/finledger/transactions-api/internal/cqrs"
	"github.com/finledger/transactions-api/internal/events"
	"github.com/finledger/transactions-api/internal/models"
	"github.com/finledger/transactions-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserCommandService handles registration. The plaintext password is hashed
// before it ever reaches the repository and is never logged.
type UserCommandService struct {
	userRepo  *repository.UserRepository
	publisher *events.Publisher
}

func NewUserCommandService(userRepo *repository.UserRepository, publisher *events.Publisher) *UserCommandService {
	return &UserCommandService{userRepo: userRepo, publisher: publisher}
}

func (s *UserCommandService) RegisterUser(cmd cqrs.RegisterUserCommand) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Admin:        false,
		Created:      time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(context.Background(), events.UserEventsStream, events.UserRegistered, events.UserRegisteredEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		log.Printf("Failed to publish user.registered event: %v", err)
	}
	return user, nil
}
