package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quotabill/internal/models"
)

type CacheService interface {
	// Draft registry caching
	GetDraftSummaries(ctx context.Context, userID uuid.UUID) ([]models.QuotationSummary, error)
	SetDraftSummaries(ctx context.Context, userID uuid.UUID, summaries []models.QuotationSummary, ttl time.Duration) error
	InvalidateDrafts(ctx context.Context, userID uuid.UUID) error

	// Document stats caching
	GetDocumentStats(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error)
	SetDocumentStats(ctx context.Context, userID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error

	// Cache invalidation
	InvalidateUserCache(ctx context.Context, userID uuid.UUID) error
	InvalidateAllCache(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Parse Redis URL to extract host:port if protocol is included
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetDraftSummaries(ctx context.Context, userID uuid.UUID) ([]models.QuotationSummary, error) {
	key := fmt.Sprintf("quotabill:drafts:%s", userID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summaries []models.QuotationSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *redisCacheService) SetDraftSummaries(ctx context.Context, userID uuid.UUID, summaries []models.QuotationSummary, ttl time.Duration) error {
	key := fmt.Sprintf("quotabill:drafts:%s", userID.String())
	data, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateDrafts(ctx context.Context, userID uuid.UUID) error {
	key := fmt.Sprintf("quotabill:drafts:%s", userID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDocumentStats(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	key := fmt.Sprintf("quotabill:stats:%s", userID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var stats map[string]interface{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *redisCacheService) SetDocumentStats(ctx context.Context, userID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("quotabill:stats:%s", userID.String())
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("quotabill:*:%s", userID.String())
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	pattern := "quotabill:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("quotabill:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}
