package recipe

import (
	"encoding/json"

	"integrated-cart/internal/pkg/common"

	"go.uber.org/zap"
)

// DecodeIngredients 解析分析回應中的 ingredientsJson 欄位。
// 後端可能回傳已結構化的陣列，也可能回傳內含陣列的 JSON 字串。
// 解析失敗不會讓整次分析中斷：回傳空清單，食譜名稱與人分仍然可用。
func DecodeIngredients(raw json.RawMessage) []Ingredient {
	if len(raw) == 0 {
		return nil
	}

	// 直接是陣列
	var ingredients []Ingredient
	if err := common.ParseJSONBytes(raw, &ingredients); err == nil {
		return ingredients
	}

	// 內含陣列的 JSON 字串
	var nested string
	if err := common.ParseJSONBytes(raw, &nested); err == nil {
		if err := common.ParseJSON(common.QuoteJSONKeys(nested), &ingredients); err == nil {
			return ingredients
		}
	}

	common.LogWarn("食材資料解析失敗，僅保留食譜基本資訊",
		zap.String("code", common.ErrCodeDecodeFailure),
		zap.Int("payload_bytes", len(raw)),
	)
	return nil
}
