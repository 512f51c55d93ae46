package bridge

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client 瀏覽器擴充橋接客戶端。
// Coupang 的搜尋頁被跨域限制擋住時，透過使用者瀏覽器內的擴充功能
// 代為抓取頁面。橋接本身不帶任何邏輯，只是傳遞，回傳的內容
// 僅作備援資料來源，永遠不是權威資料。
type Client struct {
	config *config.Config
	client *resty.Client
}

// scrapeRequest 橋接抓取請求
type scrapeRequest struct {
	Action  string `json:"action"`
	Keyword string `json:"keyword"`
}

// ScrapeResult 橋接抓取結果
type ScrapeResult struct {
	Success bool   `json:"success"`
	HTML    string `json:"html,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewClient 創建橋接客戶端，未設定時回傳 nil（橋接為選配）
func NewClient(cfg *config.Config) *Client {
	if !cfg.Bridge.Enabled {
		return nil
	}

	client := resty.New().
		SetBaseURL(cfg.Bridge.URL).
		SetTimeout(cfg.Bridge.Timeout)

	return &Client{
		config: cfg,
		client: client,
	}
}

// ScrapeCoupang 請求擴充功能抓取 Coupang 搜尋頁
func (c *Client) ScrapeCoupang(ctx context.Context, keyword string) (*ScrapeResult, error) {
	start := time.Now()
	var result ScrapeResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(scrapeRequest{Action: "scrape_coupang", Keyword: keyword}).
		SetResult(&result).
		Post("")
	common.LogBackendCall("bridge/scrape_coupang", time.Since(start), err, "")

	if err != nil {
		return nil, common.NewError(common.ErrCodeTransportFailure, "橋接調用失敗", http.StatusBadGateway, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewError(common.ErrCodeTransportFailure, "橋接回應異常", http.StatusBadGateway,
			fmt.Errorf("bridge returned status %d", resp.StatusCode()))
	}

	if !result.Success {
		common.LogWarn("橋接抓取失敗",
			zap.String("keyword", keyword),
			zap.String("bridge_error", result.Error),
		)
	}
	return &result, nil
}
