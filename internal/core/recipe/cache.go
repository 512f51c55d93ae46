package recipe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"integrated-cart/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// Cache 分析結果緩存服務（Redis）。
// 只緩存以料理名稱輸入的分析結果，URL 輸入的頁面內容會隨時間變動，不緩存。
type Cache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewCache 創建緩存服務
func NewCache(cfg *config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client: client,
		config: cfg,
	}, nil
}

// Get 獲取緩存的食譜
func (c *Cache) Get(ctx context.Context, input, modelName string) (*Recipe, error) {
	if !c.config.Enabled || c.client == nil {
		return nil, fmt.Errorf("cache is disabled")
	}

	key := c.generateKey(input, modelName)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	var r Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}

	return &r, nil
}

// Set 設置緩存的食譜
func (c *Cache) Set(ctx context.Context, input, modelName string, r *Recipe) error {
	if !c.config.Enabled || c.client == nil {
		return nil
	}

	key := c.generateKey(input, modelName)

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// Close 關閉緩存連接
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// generateKey 生成緩存鍵
func (c *Cache) generateKey(input, modelName string) string {
	hash := sha256.Sum256([]byte(input + ":" + modelName))
	return fmt.Sprintf("recipe:analysis:%s", hex.EncodeToString(hash[:]))
}
