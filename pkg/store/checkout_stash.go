package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// stashTTL bounds how long a buy-now quantity survives between the product
// page and the order sheet. An expired stash falls back to quantity 1.
const stashTTL = 30 * time.Minute

// CheckoutStash parks the quantity picked on a product page until the order
// sheet reads it. Backed by redis so it survives instance restarts and works
// behind a load balancer.
type CheckoutStash struct {
	client *redis.Client
}

func NewCheckoutStash(redisURL string) (*CheckoutStash, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &CheckoutStash{client: client}, nil
}

func stashKey(userId, productId uuid.UUID) string {
	return fmt.Sprintf("checkout:qty:%s:%s", userId, productId)
}

func (s *CheckoutStash) SetQuantity(ctx context.Context, userId, productId uuid.UUID, qty int) error {
	return s.client.Set(ctx, stashKey(userId, productId), qty, stashTTL).Err()
}

// GetQuantity returns the stashed quantity, or 1 when nothing was stashed.
func (s *CheckoutStash) GetQuantity(ctx context.Context, userId, productId uuid.UUID) (int, error) {
	qty, err := s.client.Get(ctx, stashKey(userId, productId)).Int()
	if err == redis.Nil {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if qty < 1 {
		return 1, nil
	}
	return qty, nil
}

func (s *CheckoutStash) Clear(ctx context.Context, userId, productId uuid.UUID) error {
	return s.client.Del(ctx, stashKey(userId, productId)).Err()
}

func (s *CheckoutStash) Close() error {
	return s.client.Close()
}
