package recipe

// Ingredient 食譜的原始食材
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// Recipe 分析後的食譜，一旦建立不再修改，重新分析時整體替換
type Recipe struct {
	Name        string       `json:"name"`
	BasePortion int          `json:"basePortion"`
	Ingredients []Ingredient `json:"ingredients"`
}

// ScaledIngredient 依目標人分換算後的食材
type ScaledIngredient struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"` // 原始用量
	ScaledAmount float64 `json:"scaledAmount"`
	Unit         string  `json:"unit"`
}
