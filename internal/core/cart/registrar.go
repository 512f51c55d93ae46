package cart

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

// Registrar 向後端登記加入購物車的動作。
// 登記是輔助性質：本地購物車無論登記成敗都會更新，
// 失敗只記錄並回報，不回滾本地狀態。
type Registrar struct {
	config *config.Config
	client *resty.Client
}

// registerRequest 後端登記請求
type registerRequest struct {
	UserID    string `json:"userId"`
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// NewRegistrar 創建購物車登記客戶端
func NewRegistrar(cfg *config.Config) *Registrar {
	client := resty.New().
		SetBaseURL(cfg.Backend.BaseURL).
		SetTimeout(cfg.Backend.Timeout)

	return &Registrar{
		config: cfg,
		client: client,
	}
}

// Register 登記一筆加入購物車，回傳登記是否成功
func (r *Registrar) Register(ctx context.Context, userID string, productID int64, quantity int) error {
	start := time.Now()
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(registerRequest{UserID: userID, ProductID: productID, Quantity: quantity}).
		Post("/cart/add")
	common.LogBackendCall("/cart/add", time.Since(start), err, "")

	if err != nil {
		return common.NewError(common.ErrCodeTransportFailure, "購物車登記失敗", http.StatusBadGateway, err)
	}
	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("購物車登記回應異常",
			zap.Int("status_code", resp.StatusCode()),
			zap.Int64("product_id", productID),
		)
		return common.NewError(common.ErrCodeTransportFailure, "購物車登記回應異常", http.StatusBadGateway,
			fmt.Errorf("cart/add returned status %d", resp.StatusCode()))
	}
	return nil
}
