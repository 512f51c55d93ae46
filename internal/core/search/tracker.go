package search

import (
	"sync"

	"integrated-cart/internal/pkg/common"

	"go.uber.org/zap"
)

// Tracker 防止過期搜尋回應覆蓋較新的搜尋。
// 每個 session 只有一個「目前想要的」搜尋：發出新搜尋時序號遞增，
// 回應完成時只有序號仍為最新者會被採用，亂序完成的舊回應一律丟棄。
type Tracker struct {
	mu      sync.Mutex
	current map[string]uint64 // session → 最新序號
}

// NewTracker 創建搜尋序號追蹤器
func NewTracker() *Tracker {
	return &Tracker{
		current: make(map[string]uint64),
	}
}

// Begin 登記一次新搜尋，回傳其序號。先前同 session 的搜尋即刻失效
func (t *Tracker) Begin(session string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.current[session]++
	return t.current[session]
}

// Accept 檢查序號是否仍是該 session 最新的搜尋。
// 過期回應回傳 false，呼叫端必須丟棄結果
func (t *Tracker) Accept(session string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current[session] != seq {
		common.LogDebug("丟棄過期的搜尋回應",
			zap.String("session", session),
			zap.Uint64("seq", seq),
			zap.Uint64("current", t.current[session]),
		)
		return false
	}
	return true
}

// Forget 清除 session 的追蹤狀態
func (t *Tracker) Forget(session string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.current, session)
}
