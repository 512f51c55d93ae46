package handlers

import (
	"net/http"

	"integrated-cart/internal/core/checkout"
	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderRequest 自動加車 / 結帳請求
type OrderRequest struct {
	UserID string `json:"userId" binding:"required"`
	// MallTypes 省略時以購物車目前的商城分組為準
	MallTypes []string `json:"mallTypes,omitempty"`
}

// HandleAutoCart 把購物車商品放進各商城自己的購物車
func (h *Handler) HandleAutoCart(c *gin.Context) {
	h.handleOrder(c, checkout.ActionStage)
}

// HandleCheckout 觸發各商城的自動結帳
func (h *Handler) HandleCheckout(c *gin.Context) {
	h.handleOrder(c, checkout.ActionCheckout)
}

// handleOrder 兩種動作共用：一次後端調用帶上全部商城。
// 失敗時購物車保持原狀供重試，成功時清空 session 購物車。
func (h *Handler) handleOrder(c *gin.Context, action checkout.Action) {
	reqID := requestID(c)

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	mallTypes := make([]mall.Type, 0, len(req.MallTypes))
	for _, raw := range req.MallTypes {
		t, err := mall.ParseType(raw)
		if err != nil || t == mall.All {
			abortWithError(c, common.ErrUnknownMall)
			return
		}
		mallTypes = append(mallTypes, t)
	}
	if len(mallTypes) == 0 {
		mallTypes = h.cartStore.Get(req.UserID).MallTypes()
	}

	if err := h.checkouter.Execute(c.Request.Context(), req.UserID, action, mallTypes); err != nil {
		common.LogError("結帳動作失敗，購物車保持原狀",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("request_id", reqID),
		)
		abortWithError(c, err)
		return
	}

	// 結帳成功後 session 購物車與搜尋追蹤狀態都已無意義
	if action == checkout.ActionCheckout {
		h.cartStore.Drop(req.UserID)
		h.tracker.Forget(req.UserID)
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"action": action,
		"malls":  mallTypes,
	})
}
