package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"integrated-cart/internal/core/aimodel"
	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Analyzer 食譜分析服務：把料理名稱或影片連結交給後端 AI 分析
type Analyzer struct {
	config *config.Config
	client *resty.Client
	cache  *Cache
}

// analyzeRequest 後端分析請求
type analyzeRequest struct {
	Input     string `json:"input"`
	ModelName string `json:"modelName"`
}

// analyzeResponse 後端分析回應，ingredientsJson 可能是陣列或字串
type analyzeResponse struct {
	Name            string          `json:"name"`
	BasePortion     int             `json:"basePortion"`
	IngredientsJSON json.RawMessage `json:"ingredientsJson"`
}

// NewAnalyzer 創建食譜分析服務
func NewAnalyzer(cfg *config.Config, cache *Cache) *Analyzer {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout)

	return &Analyzer{
		config: cfg,
		client: client,
		cache:  cache,
	}
}

// Analyze 分析輸入並回傳結構化食譜。
// 料理名稱輸入先查緩存；食材解析失敗時仍回傳食譜名稱與基準人分。
func (a *Analyzer) Analyze(ctx context.Context, input, modelName string) (*Recipe, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, common.NewValidationError("input is required")
	}
	if modelName == "" {
		modelName = defaultModel(input)
	}

	cacheable := !aimodel.IsURLInput(input)
	if cacheable && a.cache != nil {
		if cached, err := a.cache.Get(ctx, input, modelName); err == nil {
			common.LogCacheHit("analysis", input)
			return cached, nil
		}
		common.LogCacheMiss("analysis", input)
	}

	start := time.Now()
	var result analyzeResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(analyzeRequest{Input: input, ModelName: modelName}).
		SetResult(&result).
		Post("/analyze")
	common.LogBackendCall("/analyze", time.Since(start), err, "")

	if err != nil {
		return nil, common.NewError(common.ErrCodeTransportFailure, "分析服務調用失敗", http.StatusBadGateway, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewError(common.ErrCodeTransportFailure, "分析服務回應異常", http.StatusBadGateway,
			fmt.Errorf("analyze returned status %d", resp.StatusCode()))
	}

	r := &Recipe{
		Name:        result.Name,
		BasePortion: result.BasePortion,
		Ingredients: DecodeIngredients(result.IngredientsJSON),
	}
	if r.Name == "" {
		r.Name = input
	}

	common.LogInfo("食譜分析完成",
		zap.String("recipe", r.Name),
		zap.Int("base_portion", r.BasePortion),
		zap.Int("ingredient_count", len(r.Ingredients)),
		zap.String("model", modelName),
	)

	if cacheable && a.cache != nil && len(r.Ingredients) > 0 {
		if err := a.cache.Set(ctx, input, modelName, r); err != nil {
			// 緩存寫入失敗不影響本次分析
			common.LogWarn("分析結果緩存寫入失敗", zap.Error(err))
		}
	}

	return r, nil
}

// defaultModel 未指定模型時依輸入模式取預設模型
func defaultModel(input string) string {
	eval := aimodel.Evaluate(aimodel.FallbackCatalog(), input, "")
	return eval.Selected
}
