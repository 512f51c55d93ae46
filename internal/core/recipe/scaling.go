package recipe

import (
	"math"

	"integrated-cart/internal/pkg/common"

	"go.uber.org/zap"
)

// round1 四捨五入到小數點後一位
func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Scale 依目標人分換算食譜的食材用量。
// 換算比例為 targetPortion / basePortion，每項用量四捨五入到一位小數，
// 輸出順序與原始食材一致，第一項是後續搜尋的預設目標。
// basePortion 或 targetPortion 非正數視為食譜資料不完整。
func Scale(r *Recipe, targetPortion int) ([]ScaledIngredient, error) {
	if r == nil || r.BasePortion <= 0 {
		return nil, common.ErrMalformedRecipe
	}
	if targetPortion <= 0 {
		return nil, common.NewValidationError("target portion must be greater than 0")
	}

	ratio := float64(targetPortion) / float64(r.BasePortion)
	scaled := make([]ScaledIngredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		scaled = append(scaled, ScaledIngredient{
			Name:         ing.Name,
			Amount:       ing.Amount,
			ScaledAmount: round1(ing.Amount * ratio),
			Unit:         ing.Unit,
		})
	}

	common.LogDebug("食材換算完成",
		zap.String("recipe", r.Name),
		zap.Int("base_portion", r.BasePortion),
		zap.Int("target_portion", targetPortion),
		zap.Int("ingredient_count", len(scaled)),
	)

	return scaled, nil
}

// PurchaseQuantity 依商品單位容量計算需要購買的最小數量
func PurchaseQuantity(requiredAmount float64, productCapacity int) (int, error) {
	if productCapacity <= 0 {
		return 0, common.NewValidationError("product capacity must be greater than 0")
	}
	if requiredAmount <= 0 {
		return 1, nil
	}
	return int(math.Ceil(requiredAmount / float64(productCapacity))), nil
}
