package cart

import (
	"sync"

	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/pkg/common"
)

// Entry 購物車中的一項商品。
// ID 在加入時產生，刪除只認 ID：兩筆商品與數量完全相同的項目
// 仍是不同的 Entry，以值比對刪除會誤刪另一筆。
type Entry struct {
	ID       string       `json:"id"`
	Product  mall.Product `json:"product"`
	Quantity int          `json:"quantity"`
}

// Cart 單一 session 的購物車，項目依加入順序排列。
// 同一 session 的請求可能並發進來，所有讀寫都由鎖保護。
type Cart struct {
	mu      sync.Mutex
	entries []Entry
}

// Add 加入一筆新項目並回傳它。永遠附加，不與既有相同商品合併
func (c *Cart) Add(product mall.Product, quantity int) (Entry, error) {
	if quantity <= 0 {
		return Entry{}, common.NewValidationError("quantity must be greater than 0")
	}

	entry := Entry{
		ID:       common.GenerateUUID(),
		Product:  product,
		Quantity: quantity,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, entry)
	return entry, nil
}

// Remove 依項目 ID 刪除恰好一筆，找不到時回傳 false
func (c *Cart) Remove(entryID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, entry := range c.entries {
		if entry.ID == entryID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries 回傳目前所有項目的副本，依加入順序
func (c *Cart) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// GroupByMall 依商城分組，每次讀取重新計算，不做任何快取，
// 組內維持原始加入順序
func (c *Cart) GroupByMall() map[mall.Type][]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	grouped := make(map[mall.Type][]Entry)
	for _, entry := range c.entries {
		grouped[entry.Product.MallType] = append(grouped[entry.Product.MallType], entry)
	}
	return grouped
}

// MallTypes 回傳購物車目前包含的商城集合，依固定商城順序
func (c *Cart) MallTypes() []mall.Type {
	c.mu.Lock()
	defer c.mu.Unlock()

	present := make(map[mall.Type]bool)
	for _, entry := range c.entries {
		present[entry.Product.MallType] = true
	}

	types := make([]mall.Type, 0, len(present))
	for _, t := range mall.AllTypes() {
		if present[t] {
			types = append(types, t)
		}
	}
	return types
}

// Total 即時加總 price × quantity，不保存累計值以免漂移
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, entry := range c.entries {
		total += entry.Product.Price * int64(entry.Quantity)
	}
	return total
}

// Len 項目數
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
