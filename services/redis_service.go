package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"malaria-http-service/config"
)

// InterfaceRedisService 定义Redis缓存服务接口
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheDashboardCounts(role string, counts interface{}, expiration time.Duration) error
	GetDashboardCounts(role string, dest interface{}) error
	InvalidateDashboard() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config, client *redis.Client) *RedisService {
	if client == nil {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: "", // No password set
			DB:       cfg.RedisDB,
		})
	}

	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// CacheDashboardCounts 按角色缓存仪表盘统计
func (s *RedisService) CacheDashboardCounts(role string, counts interface{}, expiration time.Duration) error {
	return s.Set("dashboard:"+role, counts, expiration)
}

// GetDashboardCounts 获取角色对应的仪表盘统计缓存
func (s *RedisService) GetDashboardCounts(role string, dest interface{}) error {
	return s.Get("dashboard:"+role, dest)
}

// InvalidateDashboard 清除所有仪表盘统计缓存
func (s *RedisService) InvalidateDashboard() error {
	keys, err := s.Client.Keys(s.Ctx, "dashboard:*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.Client.Del(s.Ctx, keys...).Err()
}
