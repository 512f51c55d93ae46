package mall

// Product 商城搜尋回傳的商品快照，客戶端不做任何修改
type Product struct {
	ID           int64    `json:"id"`
	MallType     Type     `json:"mallType"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`    // 韓元
	Capacity     int      `json:"capacity"` // 單位容量數值，unit 為 g / ml / 개
	Unit         string   `json:"unit"`
	ProductURL   string   `json:"productUrl,omitempty"`
	SugarPer100g *float64 `json:"sugarPer100g,omitempty"` // 低糖篩選用，可為 null
}
