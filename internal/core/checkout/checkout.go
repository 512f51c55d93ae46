package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/infrastructure/config"
	"integrated-cart/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Action 結帳協調器支援的動作
type Action string

const (
	// ActionStage 把商品放進各商城自己的購物車，不完成付款
	ActionStage Action = "STAGE"
	// ActionCheckout 由後端機器人在各商城完成付款
	ActionCheckout Action = "CHECKOUT"
)

// endpoint 動作對應的後端路徑
func (a Action) endpoint() string {
	if a == ActionCheckout {
		return "/order/checkout"
	}
	return "/order/auto-cart"
}

// Orchestrator 結帳協調器。
// 每個動作只發出一個後端調用，帶上購物車內全部商城；各商城的
// 自動化由後端展開，客戶端不逐一調用。
// 同一使用者同時只允許一個進行中的動作，重複提交直接拒絕，
// 避免對商城自動化重複觸發。
type Orchestrator struct {
	config   *config.Config
	client   *resty.Client
	mu       sync.Mutex
	inFlight map[string]Action // user → 進行中的動作
}

// orderRequest 後端下單請求
type orderRequest struct {
	UserID    string   `json:"userId"`
	MallTypes []string `json:"mallTypes"`
}

// NewOrchestrator 創建結帳協調器
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout)

	return &Orchestrator{
		config:   cfg,
		client:   client,
		inFlight: make(map[string]Action),
	}
}

// Execute 執行自動加車或結帳。
// 失敗時購物車保持原狀供重試；成功時由呼叫端決定是否關閉購物車畫面。
func (o *Orchestrator) Execute(ctx context.Context, userID string, action Action, mallTypes []mall.Type) error {
	if len(mallTypes) == 0 {
		return common.NewValidationError("cart has no malls to act on")
	}

	if err := o.acquire(userID, action); err != nil {
		return err
	}
	defer o.release(userID)

	names := make([]string, 0, len(mallTypes))
	for _, t := range mallTypes {
		names = append(names, string(t))
	}

	start := time.Now()
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(orderRequest{UserID: userID, MallTypes: names}).
		Post(action.endpoint())
	common.LogBackendCall(action.endpoint(), time.Since(start), err, "")

	if err != nil {
		return common.NewError(common.ErrCodeTransportFailure, "結帳服務調用失敗", http.StatusBadGateway, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return common.NewError(common.ErrCodeTransportFailure, "結帳服務回應異常", http.StatusBadGateway,
			fmt.Errorf("%s returned status %d", action.endpoint(), resp.StatusCode()))
	}

	common.LogInfo("結帳動作完成",
		zap.String("action", string(action)),
		zap.Strings("malls", names),
	)
	return nil
}

// acquire 登記進行中的動作，已有動作時拒絕（不分動作種類）
func (o *Orchestrator) acquire(userID string, action Action) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if current, exists := o.inFlight[userID]; exists {
		common.LogWarn("拒絕重複的結帳提交",
			zap.String("requested", string(action)),
			zap.String("in_flight", string(current)),
		)
		return common.ErrActionInFlight
	}
	o.inFlight[userID] = action
	return nil
}

// release 清除進行中標記
func (o *Orchestrator) release(userID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.inFlight, userID)
}
