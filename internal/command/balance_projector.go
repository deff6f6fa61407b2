package command

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/finledger/transactions-api/internal/events"
	"github.com/finledger/transactions-api/internal/repository"
	goredis "github.com/redis/go-redis/v9"
)

const processedTxnKeyPrefix = "processed:txn:"

// BalanceProjector keeps account balances current by consuming transaction
// events. Redis Streams delivery is at-least-once, so each applied
// transaction id is recorded for 72 hours and replays are skipped.
type BalanceProjector struct {
	accountRepo *repository.AccountRepository
	redis       *goredis.Client
}

func NewBalanceProjector(accountRepo *repository.AccountRepository, redisClient *goredis.Client) *BalanceProjector {
	return &BalanceProjector{accountRepo: accountRepo, redis: redisClient}
}

// HandleTransactionEvent is the Redis stream subscriber handler.
func (p *BalanceProjector) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.TransactionCreated {
		return nil
	}

	var data events.TransactionCreatedEvent
	if err := event.Decode(&data); err != nil {
		return fmt.Errorf("failed to decode transaction.created payload: %w", err)
	}

	key := processedTxnKeyPrefix + strconv.FormatInt(data.TransactionID, 10)
	if exists, err := p.redis.Exists(ctx, key).Result(); err == nil && exists > 0 {
		return nil
	}

	delta := data.Amount
	if data.TransactionType == "expense" {
		delta = -data.Amount
	}
	if err := p.accountRepo.ApplyBalanceChange(data.AccountID, delta); err != nil {
		return err
	}

	if err := p.redis.Set(ctx, key, "1", 72*time.Hour).Err(); err != nil {
		log.Printf("Failed to mark transaction %d as processed: %v", data.TransactionID, err)
	}
	return nil
}
