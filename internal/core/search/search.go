package search

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Outcome 搜尋結果分類
type Outcome string

const (
	// OutcomePopulated 至少一個商城有結果（零結果的商城仍列出，供畫面呈現）
	OutcomePopulated Outcome = "POPULATED"
	// OutcomeEmpty 所有商城都沒有結果
	OutcomeEmpty Outcome = "EMPTY"
	// OutcomeTransportFailure 調用本身失敗。對使用者與 EMPTY 同樣呈現無結果，
	// 但日誌與 Outcome 欄位必須能區分兩者
	OutcomeTransportFailure Outcome = "TRANSPORT_FAILURE"
)

// Result 一次搜尋的完整結果
type Result struct {
	Keyword        string                       `json:"keyword"`
	RequiredAmount float64                      `json:"requiredAmount"`
	LowSugar       bool                         `json:"lowSugar"`
	Outcome        Outcome                      `json:"outcome"`
	Products       map[mall.Type][]mall.Product `json:"products"`
	// RetryKeyword 無結果時的簡化關鍵字重試建議
	RetryKeyword string `json:"retryKeyword,omitempty"`
	// SearchLinks 無結果時各商城搜尋頁的逃生連結
	SearchLinks map[mall.Type]string `json:"searchLinks,omitempty"`
}

// Orchestrator 多商城搜尋協調器。
// 每次搜尋只對後端發出一個彙總請求，各商城的並行查詢由後端處理。
type Orchestrator struct {
	config *config.Config
	client *resty.Client
}

// NewOrchestrator 創建搜尋協調器
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout)

	return &Orchestrator{
		config: cfg,
		client: client,
	}
}

// SimplifyKeyword 取關鍵字的第一個空白分隔詞作為重試關鍵字。
// 例："돼지 앞다리살" → "돼지"
func SimplifyKeyword(keyword string) string {
	fields := strings.Fields(keyword)
	if len(fields) == 0 {
		return keyword
	}
	return fields[0]
}

// Search 發出一次彙總搜尋並分類結果。
// malls 含 ALL 或為空時不帶商城過濾條件，由後端搜尋所有支援的商城。
// lowSugar 開啟低糖篩選，由後端依 sugarPer100g 過濾商品。
func (o *Orchestrator) Search(ctx context.Context, keyword string, requiredAmount float64, malls []mall.Type, lowSugar bool) *Result {
	result := &Result{
		Keyword:        keyword,
		RequiredAmount: requiredAmount,
		LowSugar:       lowSugar,
	}

	query := map[string]string{
		"keyword":        keyword,
		"requiredAmount": strconv.FormatFloat(requiredAmount, 'f', -1, 64),
		"lowSugar":       strconv.FormatBool(lowSugar),
	}
	if param := mallsParam(malls); param != "" {
		query["malls"] = param
	}

	start := time.Now()
	var products map[mall.Type][]mall.Product
	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&products).
		Get("/ingredients/search")
	common.LogBackendCall("/ingredients/search", time.Since(start), err, "")

	if err != nil {
		return o.classifyFailure(result, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return o.classifyFailure(result, fmt.Errorf("search returned status %d", resp.StatusCode()))
	}

	result.Products = products
	return o.classify(result)
}

// mallsParam 組合 malls 查詢參數，ALL 或空集合時回傳空字串表示省略
func mallsParam(malls []mall.Type) string {
	if len(malls) == 0 {
		return ""
	}
	names := make([]string, 0, len(malls))
	for _, m := range malls {
		if m == mall.All {
			return ""
		}
		names = append(names, string(m))
	}
	return strings.Join(names, ",")
}

// classify 區分有結果 / 全空。單一商城為零結果不構成空結果條件，
// 只有所有商城清單都為空才算
func (o *Orchestrator) classify(result *Result) *Result {
	total := 0
	for _, products := range result.Products {
		total += len(products)
	}

	if total == 0 {
		result.Outcome = OutcomeEmpty
		attachEmptyState(result)
		common.LogInfo("搜尋無結果",
			zap.String("keyword", result.Keyword),
			zap.String("outcome", string(OutcomeEmpty)),
			zap.String("retry_keyword", result.RetryKeyword),
		)
		return result
	}

	result.Outcome = OutcomePopulated
	common.LogInfo("搜尋完成",
		zap.String("keyword", result.Keyword),
		zap.String("outcome", string(OutcomePopulated)),
		zap.Int("product_count", total),
		zap.Int("mall_count", len(result.Products)),
	)
	return result
}

// classifyFailure 傳輸失敗：畫面上與空結果相同，但日誌需留下失敗原因
func (o *Orchestrator) classifyFailure(result *Result, err error) *Result {
	result.Outcome = OutcomeTransportFailure
	attachEmptyState(result)
	common.LogError("搜尋調用失敗",
		zap.String("keyword", result.Keyword),
		zap.String("outcome", string(OutcomeTransportFailure)),
		zap.Error(err),
	)
	return result
}

// attachEmptyState 為無結果狀態補上重試關鍵字與各商城逃生連結
func attachEmptyState(result *Result) {
	if simplified := SimplifyKeyword(result.Keyword); simplified != result.Keyword {
		result.RetryKeyword = simplified
	}
	result.SearchLinks = make(map[mall.Type]string, len(mall.AllTypes()))
	for _, m := range mall.AllTypes() {
		result.SearchLinks[m] = mall.SearchLink(m, result.Keyword)
	}
}
