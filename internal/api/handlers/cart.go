package handlers

import (
	"net/http"

	"integrated-cart/internal/core/cart"
	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/core/recipe"
	"integrated-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartAddRequest 加入購物車請求
type CartAddRequest struct {
	UserID   string       `json:"userId" binding:"required"`
	Product  mall.Product `json:"product" binding:"required"`
	Quantity int          `json:"quantity"`
	// RequiredAmount 有值時依商品容量換算最低購買數量，省略 quantity
	RequiredAmount float64 `json:"requiredAmount,omitempty"`
}

// CartAddResponse 加入購物車響應
type CartAddResponse struct {
	Entry cart.Entry `json:"entry"`
	// Registered 後端登記結果。登記失敗不影響本地購物車
	Registered bool `json:"registered"`
}

// HandleCartAdd 附加一筆購物車項目。
// 後端登記為輔助性質：登記失敗只記錄並在響應中標示，本地項目照常加入。
func (h *Handler) HandleCartAdd(c *gin.Context) {
	reqID := requestID(c)

	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	quantity := req.Quantity
	if quantity <= 0 && req.RequiredAmount > 0 {
		q, err := recipe.PurchaseQuantity(req.RequiredAmount, req.Product.Capacity)
		if err != nil {
			abortWithError(c, err)
			return
		}
		quantity = q
	}
	if quantity <= 0 {
		quantity = 1
	}

	entry, err := h.cartStore.Get(req.UserID).Add(req.Product, quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}

	registered := true
	if err := h.registrar.Register(c.Request.Context(), req.UserID, req.Product.ID, quantity); err != nil {
		registered = false
		common.LogWarn("購物車後端登記失敗，本地購物車不回滾",
			zap.Error(err),
			zap.String("request_id", reqID),
			zap.Int64("product_id", req.Product.ID),
		)
	}

	c.JSON(http.StatusOK, CartAddResponse{
		Entry:      entry,
		Registered: registered,
	})
}

// CartResponse 購物車內容響應
type CartResponse struct {
	Entries []cart.Entry               `json:"entries"`
	Grouped map[mall.Type][]cart.Entry `json:"grouped"`
	Total   int64                      `json:"total"`
}

// HandleCartGet 回傳購物車內容、商城分組與總額
func (h *Handler) HandleCartGet(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	userCart := h.cartStore.Get(userID)
	c.JSON(http.StatusOK, CartResponse{
		Entries: userCart.Entries(),
		Grouped: userCart.GroupByMall(),
		Total:   userCart.Total(),
	})
}

// HandleCartRemove 依項目 ID 刪除一筆購物車項目
func (h *Handler) HandleCartRemove(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	entryID := c.Param("id")
	userCart := h.cartStore.Get(userID)
	if !userCart.Remove(entryID) {
		abortWithError(c, common.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, CartResponse{
		Entries: userCart.Entries(),
		Grouped: userCart.GroupByMall(),
		Total:   userCart.Total(),
	})
}
