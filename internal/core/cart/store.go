package cart

import (
	"sync"
	"time"

	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 以 session 為鍵的購物車存放區。
// 購物車只存在於活躍 session 期間，過了 TTL 由清理協程回收。
type Store struct {
	config *config.Config
	mu     sync.RWMutex
	carts  map[string]*storeEntry
	stats  storeStats
	done   chan struct{}
}

// storeEntry 存放區條目
type storeEntry struct {
	cart       *Cart
	lastAccess time.Time
}

// storeStats 存放區統計
type storeStats struct {
	created   int64
	evictions int64
}

// NewStore 創建購物車存放區並啟動過期清理協程
func NewStore(cfg *config.Config) *Store {
	s := &Store{
		config: cfg,
		carts:  make(map[string]*storeEntry),
		done:   make(chan struct{}),
	}

	go s.startCleanup()

	common.LogInfo("購物車存放區已初始化",
		zap.Duration("存活時間", cfg.Cart.TTL),
		zap.Duration("清理間隔", cfg.Cart.CleanupInterval),
	)

	return s
}

// Get 取得 session 的購物車，不存在時建立新的
func (s *Store) Get(session string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.carts[session]; exists {
		entry.lastAccess = time.Now()
		return entry.cart
	}

	cart := &Cart{}
	s.carts[session] = &storeEntry{
		cart:       cart,
		lastAccess: time.Now(),
	}
	s.stats.created++
	return cart
}

// Drop 移除 session 的購物車
func (s *Store) Drop(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, session)
}

// startCleanup 啟動清理過期購物車的協程
func (s *Store) startCleanup() {
	ticker := time.NewTicker(s.config.Cart.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

// cleanup 清理超過 TTL 未使用的購物車
func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for session, entry := range s.carts {
		if now.Sub(entry.lastAccess) > s.config.Cart.TTL {
			delete(s.carts, session)
			s.stats.evictions++
			count++
		}
	}

	if count > 0 {
		common.LogInfo("過期購物車已清理",
			zap.Int("count", count),
			zap.Int("remaining", len(s.carts)),
		)
	}
}

// Close 關閉存放區
func (s *Store) Close() error {
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts = make(map[string]*storeEntry)
	common.LogInfo("購物車存放區已關閉",
		zap.Int64("建立數", s.stats.created),
		zap.Int64("回收數", s.stats.evictions),
	)
	return nil
}
