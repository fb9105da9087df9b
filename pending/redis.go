package pending

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"paystack-donation-api/models"
)

type RedisStore struct {
	client      *redis.Client
	prefix      string
	ttl         time.Duration
	verifiedTTL time.Duration
}

func NewRedisStore(redisURL, prefix string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, prefix, ttl), nil
}

func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "donation"
	}
	return &RedisStore{
		client:      client,
		prefix:      prefix,
		ttl:         ttl,
		verifiedTTL: VerifiedTTL,
	}
}

func (s *RedisStore) pendingKey(reference string) string {
	return s.prefix + ":pending:" + reference
}

func (s *RedisStore) verifiedKey(reference string) string {
	return s.prefix + ":verified:" + reference
}

func (s *RedisStore) Save(ctx context.Context, donation models.PendingDonation) error {
	payload, err := json.Marshal(donation)
	if err != nil {
		return fmt.Errorf("failed to marshal pending donation: %w", err)
	}

	if err := s.client.Set(ctx, s.pendingKey(donation.Reference), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending donation: %w", err)
	}

	log.Printf("Stored pending donation %s (expires in %v)", donation.Reference, s.ttl)
	return nil
}

func (s *RedisStore) Get(ctx context.Context, reference string) (*models.PendingDonation, error) {
	payload, err := s.client.Get(ctx, s.pendingKey(reference)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load pending donation: %w", err)
	}

	var donation models.PendingDonation
	if err := json.Unmarshal(payload, &donation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending donation: %w", err)
	}
	return &donation, nil
}

func (s *RedisStore) Delete(ctx context.Context, reference string) error {
	if err := s.client.Del(ctx, s.pendingKey(reference)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending donation: %w", err)
	}
	return nil
}

func (s *RedisStore) MarkVerified(ctx context.Context, reference string) (bool, error) {
	first, err := s.client.SetNX(ctx, s.verifiedKey(reference), time.Now().Unix(), s.verifiedTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark donation verified: %w", err)
	}
	return first, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client exposes the connection so the rate limiter can share it.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
