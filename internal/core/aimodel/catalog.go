package aimodel

import (
	"context"
	"net/http"

	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// CatalogClient 從分析後端取得可用模型目錄
type CatalogClient struct {
	config *config.Config
	client *resty.Client
}

// NewCatalogClient 創建模型目錄客戶端
func NewCatalogClient(cfg *config.Config) *CatalogClient {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout)

	return &CatalogClient{
		config: cfg,
		client: client,
	}
}

// FallbackCatalog 後端不可用時的固定模型目錄。
// 兩個模型都支援 generateContent 且為長上下文，URL 輸入仍可使用。
func FallbackCatalog() []Model {
	return []Model{
		{
			Name:                       "gemini-1.5-flash",
			DisplayName:                "Gemini 1.5 Flash",
			SupportedGenerationMethods: []string{"generateContent"},
			InputTokenLimit:            1_000_000,
		},
		{
			Name:                       "gemini-1.5-pro",
			DisplayName:                "Gemini 1.5 Pro",
			SupportedGenerationMethods: []string{"generateContent"},
			InputTokenLimit:            2_000_000,
		},
	}
}

// FetchCatalog 取得模型目錄，失敗時退回固定目錄（降級而非中斷）
func (c *CatalogClient) FetchCatalog(ctx context.Context) []Model {
	var models []Model

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&models).
		Get("/ai/models")

	if err != nil {
		common.LogWarn("模型目錄取得失敗，使用預設目錄",
			zap.Error(err),
		)
		return FallbackCatalog()
	}

	if resp.StatusCode() != http.StatusOK || len(models) == 0 {
		common.LogWarn("模型目錄回應異常，使用預設目錄",
			zap.Int("status_code", resp.StatusCode()),
			zap.Int("model_count", len(models)),
		)
		return FallbackCatalog()
	}

	common.LogInfo("模型目錄已載入",
		zap.Int("model_count", len(models)),
	)
	return models
}
