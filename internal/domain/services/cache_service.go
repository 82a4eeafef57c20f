package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
)

type CacheService interface {
	GetSubmission(ctx context.Context, id string) (*entities.Submission, error)
	SetSubmission(ctx context.Context, sub *entities.Submission) error
	GetSubmissionList(ctx context.Context, key string) ([]*entities.Submission, error)
	SetSubmissionList(ctx context.Context, key string, subs []*entities.Submission) error
	InvalidateSubmission(ctx context.Context, id string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
	GetListCacheKey(filter *entities.SubmissionFilter) string
}

type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, duration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

type redisCacheService struct {
	client        RedisClient
	cacheDuration time.Duration
}

func NewRedisCacheService(client RedisClient, cacheDuration time.Duration) *redisCacheService {
	return &redisCacheService{
		client:        client,
		cacheDuration: cacheDuration,
	}
}

func (s *redisCacheService) GetSubmission(ctx context.Context, id string) (*entities.Submission, error) {
	key := fmt.Sprintf("sub:%s", id)
	data, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var sub entities.Submission
	if err := json.Unmarshal([]byte(data), &sub); err != nil {
		return nil, err
	}

	return &sub, nil
}

func (s *redisCacheService) SetSubmission(ctx context.Context, sub *entities.Submission) error {
	key := fmt.Sprintf("sub:%s", sub.ID)
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.cacheDuration)
}

func (s *redisCacheService) GetSubmissionList(ctx context.Context, key string) ([]*entities.Submission, error) {
	data, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var subs []*entities.Submission
	if err := json.Unmarshal([]byte(data), &subs); err != nil {
		return nil, err
	}

	return subs, nil
}

func (s *redisCacheService) SetSubmissionList(ctx context.Context, key string, subs []*entities.Submission) error {
	data, err := json.Marshal(subs)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, s.cacheDuration)
}

func (s *redisCacheService) InvalidateSubmission(ctx context.Context, id string) error {
	key := fmt.Sprintf("sub:%s", id)
	return s.client.Del(ctx, key)
}

func (s *redisCacheService) InvalidatePrefix(ctx context.Context, prefix string) error {
	pattern := fmt.Sprintf("%s*", prefix)
	keys, err := s.client.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return s.client.Del(ctx, keys...)
	}

	return nil
}

func (s *redisCacheService) GetListCacheKey(filter *entities.SubmissionFilter) string {
	return fmt.Sprintf(
		"subs:list:user=%s:status=%s:limit=%d",
		filter.UserID,
		filter.Status,
		filter.Limit,
	)
}
