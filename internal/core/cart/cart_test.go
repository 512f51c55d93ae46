package cart

import (
	"sync"
	"testing"

	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(mallType mall.Type, name string, price int64) mall.Product {
	return mall.Product{
		ID:       1,
		MallType: mallType,
		Name:     name,
		Price:    price,
		Capacity: 300,
		Unit:     "g",
	}
}

func TestCartAdd(t *testing.T) {
	t.Run("append keeps duplicates as separate entries", func(t *testing.T) {
		c := &Cart{}
		p := testProduct(mall.Coupang, "국산 두부 300g", 2500)

		first, err := c.Add(p, 2)
		require.NoError(t, err)
		second, err := c.Add(p, 2)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		c := &Cart{}
		p := testProduct(mall.Coupang, "국산 두부 300g", 2500)

		_, err := c.Add(p, 0)
		var verr *common.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("entries preserve insertion order", func(t *testing.T) {
		c := &Cart{}
		c.Add(testProduct(mall.Kurly, "양파 1kg", 3000), 1)
		c.Add(testProduct(mall.Coupang, "국산 두부 300g", 2500), 1)

		entries := c.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "양파 1kg", entries[0].Product.Name)
		assert.Equal(t, "국산 두부 300g", entries[1].Product.Name)
	})
}

func TestCartRemove(t *testing.T) {
	t.Run("removes exactly one of two identical entries", func(t *testing.T) {
		c := &Cart{}
		p := testProduct(mall.Coupang, "국산 두부 300g", 2500)

		first, err := c.Add(p, 2)
		require.NoError(t, err)
		second, err := c.Add(p, 2)
		require.NoError(t, err)

		assert.True(t, c.Remove(first.ID))

		entries := c.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, second.ID, entries[0].ID)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		c := &Cart{}
		c.Add(testProduct(mall.Naver, "대파 500g", 1800), 1)

		assert.False(t, c.Remove("missing-id"))
		assert.Equal(t, 1, c.Len())
	})
}

func TestCartGroupByMall(t *testing.T) {
	c := &Cart{}
	c.Add(testProduct(mall.Coupang, "국산 두부 300g", 2500), 1)
	c.Add(testProduct(mall.Kurly, "양파 1kg", 3000), 1)
	c.Add(testProduct(mall.Coupang, "대파 500g", 1800), 2)

	grouped := c.GroupByMall()
	require.Len(t, grouped, 2)
	require.Len(t, grouped[mall.Coupang], 2)
	require.Len(t, grouped[mall.Kurly], 1)

	// 組內維持加入順序
	assert.Equal(t, "국산 두부 300g", grouped[mall.Coupang][0].Product.Name)
	assert.Equal(t, "대파 500g", grouped[mall.Coupang][1].Product.Name)

	t.Run("regrouping after removal is consistent", func(t *testing.T) {
		entries := c.Entries()
		c.Remove(entries[0].ID)

		grouped := c.GroupByMall()
		require.Len(t, grouped[mall.Coupang], 1)
		assert.Equal(t, "대파 500g", grouped[mall.Coupang][0].Product.Name)
	})
}

func TestCartMallTypes(t *testing.T) {
	c := &Cart{}
	c.Add(testProduct(mall.Naver, "대파 500g", 1800), 1)
	c.Add(testProduct(mall.Coupang, "국산 두부 300g", 2500), 1)
	c.Add(testProduct(mall.Naver, "계란 30구", 7000), 1)

	// 依固定商城順序，不依加入順序
	assert.Equal(t, []mall.Type{mall.Coupang, mall.Naver}, c.MallTypes())
}

func TestCartConcurrentAccess(t *testing.T) {
	// 同一 session 的購物車會被並發請求共用：加入、讀取、刪除
	// 同時進行不得遺失項目（go test -race 驗證無資料競爭）
	c := &Cart{}
	p := testProduct(mall.Coupang, "국산 두부 300g", 2500)

	const workers = 8
	const addsPerWorker = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerWorker; j++ {
				_, err := c.Add(p, 1)
				assert.NoError(t, err)
				c.GroupByMall()
				c.Total()
				c.Entries()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*addsPerWorker, c.Len())
	assert.Equal(t, int64(workers*addsPerWorker)*2500, c.Total())

	// 並發刪除每筆恰好成功一次
	entries := c.Entries()
	removed := make(chan bool, len(entries))
	for _, entry := range entries {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			removed <- c.Remove(id)
		}(entry.ID)
	}
	wg.Wait()
	close(removed)

	for ok := range removed {
		assert.True(t, ok)
	}
	assert.Equal(t, 0, c.Len())
}

func TestCartTotal(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Total())

	c.Add(testProduct(mall.Coupang, "국산 두부 300g", 2500), 2)
	c.Add(testProduct(mall.Kurly, "양파 1kg", 3000), 1)
	assert.Equal(t, int64(8000), c.Total())

	// 重複讀取不得改變結果
	assert.Equal(t, int64(8000), c.Total())

	entries := c.Entries()
	c.Remove(entries[1].ID)
	assert.Equal(t, int64(5000), c.Total())
}
