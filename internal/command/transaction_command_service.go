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
)

// TransactionCommandService mutates the ledger. Referenced ids are checked
// for existence before any write; field-level validation happens at the
// request boundary.
type TransactionCommandService struct {
	writeRepo         *repository.TransactionWriteRepository
	readRepo          *repository.TransactionReadRepository
	accountRepo       *repository.AccountRepository
	userRepo          *repository.UserRepository
	paymentMethodRepo *repository.PaymentMethodRepository
	publisher         *events.Publisher
}

func NewTransactionCommandService(
	writeRepo *repository.TransactionWriteRepository,
	readRepo *repository.TransactionReadRepository,
	accountRepo *repository.AccountRepository,
	userRepo *repository.UserRepository,
	paymentMethodRepo *repository.PaymentMethodRepository,
	publisher *events.Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo:         writeRepo,
		readRepo:          readRepo,
		accountRepo:       accountRepo,
		userRepo:          userRepo,
		paymentMethodRepo: paymentMethodRepo,
		publisher:         publisher,
	}
}

func (s *TransactionCommandService) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if err := s.checkReferences(cmd.AccountID, cmd.UserID, cmd.PaymentMethodID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		AccountID:       cmd.AccountID,
		UserID:          cmd.UserID,
		PaymentMethodID: cmd.PaymentMethodID,
		TransactionType: cmd.TransactionType,
		Category:        cmd.Category,
		Amount:          cmd.Amount,
		Description:     cmd.Description,
		Created:         time.Now().UTC(),
	}
	if err := s.writeRepo.Create(transaction); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.readRepo.CacheTransactionView(ctx, transaction)
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID:   transaction.ID,
		Slug:            transaction.Slug,
		AccountID:       transaction.AccountID,
		UserID:          transaction.UserID,
		Amount:          transaction.Amount,
		TransactionType: transaction.TransactionType,
		Category:        transaction.Category,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}
	return transaction, nil
}

func (s *TransactionCommandService) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	if err := s.checkReferences(cmd.AccountID, cmd.UserID, cmd.PaymentMethodID); err != nil {
		return nil, err
	}

	updated, err := s.writeRepo.UpdateBySlug(cmd.Slug, &models.Transaction{
		AccountID:       cmd.AccountID,
		UserID:          cmd.UserID,
		PaymentMethodID: cmd.PaymentMethodID,
		TransactionType: cmd.TransactionType,
		Category:        cmd.Category,
		Amount:          cmd.Amount,
		Description:     cmd.Description,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.readRepo.CacheTransactionView(ctx, updated)
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionUpdated, events.TransactionUpdatedEvent{
		Slug:            updated.Slug,
		AccountID:       updated.AccountID,
		UserID:          updated.UserID,
		Amount:          updated.Amount,
		TransactionType: updated.TransactionType,
	}); err != nil {
		log.Printf("Failed to publish transaction.updated event: %v", err)
	}
	return updated, nil
}

func (s *TransactionCommandService) DeleteTransaction(cmd cqrs.DeleteTransactionCommand) error {
	if err := s.writeRepo.DeleteBySlug(cmd.Slug); err != nil {
		return err
	}

	ctx := context.Background()
	s.readRepo.InvalidateTransactionView(ctx, cmd.Slug)
	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionDeleted, events.TransactionDeletedEvent{
		Slug: cmd.Slug,
	}); err != nil {
		log.Printf("Failed to publish transaction.deleted event: %v", err)
	}
	return nil
}

// checkReferences enforces existence of the referenced rows. The legacy
// schema hardcoded the id range [1,3]; existence-by-id is the general rule.
func (s *TransactionCommandService) checkReferences(accountID, userID, paymentMethodID int64) error {
	ok, err := s.accountRepo.Exists(accountID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown account_id")
	}
	ok, err = s.userRepo.Exists(userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown user_id")
	}
	ok, err = s.paymentMethodRepo.Exists(paymentMethodID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("unknown payment_method_id")
	}
	return nil
}
