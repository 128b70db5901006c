package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eaglebank/client-service/internal/models"
	goredis "github.com/redis/go-redis/v9"
)

const activityKeyPrefix = "client:activity:"

// Activity counter fields stored in each client's hash.
const (
	ActivityAccountsCreated = "accountsCreated"
	ActivityAccountsDeleted = "accountsDeleted"
	ActivityDeposits        = "deposits"
	ActivityWithdrawals     = "withdrawals"
	ActivityUpdates         = "updates"
)

// ActivityRepository stores per-client event counters as a Redis hash.
type ActivityRepository struct {
	redis *goredis.Client
}

func NewActivityRepository(redisClient *goredis.Client) *ActivityRepository {
	return &ActivityRepository{redis: redisClient}
}

func (r *ActivityRepository) Increment(ctx context.Context, clientID, field string) error {
	if err := r.redis.HIncrBy(ctx, activityKeyPrefix+clientID, field, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment %s for client %s: %w", field, clientID, err)
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, clientID string) error {
	if err := r.redis.Del(ctx, activityKeyPrefix+clientID).Err(); err != nil {
		return fmt.Errorf("failed to delete activity for client %s: %w", clientID, err)
	}
	return nil
}

// GetActivity returns the counters for clientID. A client with no recorded
// events has all counters at zero.
func (r *ActivityRepository) GetActivity(ctx context.Context, clientID string) (*models.ClientActivity, error) {
	fields, err := r.redis.HGetAll(ctx, activityKeyPrefix+clientID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity for client %s: %w", clientID, err)
	}

	activity := &models.ClientActivity{ClientID: clientID}
	targets := map[string]*int64{
		ActivityAccountsCreated: &activity.AccountsCreated,
		ActivityAccountsDeleted: &activity.AccountsDeleted,
		ActivityDeposits:        &activity.Deposits,
		ActivityWithdrawals:     &activity.Withdrawals,
		ActivityUpdates:         &activity.Updates,
	}
	for field, raw := range fields {
		target, ok := targets[field]
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt activity counter %s for client %s: %w", field, clientID, err)
		}
		*target = n
	}
	return activity, nil
}
