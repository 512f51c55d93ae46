package handlers

import (
	"net/http"

	"integrated-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// BridgeScrapeRequest 橋接抓取請求
type BridgeScrapeRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// HandleBridgeScrape 透過瀏覽器擴充抓取 Coupang 搜尋頁。
// 純傳遞，抓取結果只作診斷用備援，不會進入搜尋結果。
func (h *Handler) HandleBridgeScrape(c *gin.Context) {
	if h.bridge == nil {
		abortWithError(c, common.ErrServiceUnavailable)
		return
	}

	var req BridgeScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.bridge.ScrapeCoupang(c.Request.Context(), req.Keyword)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
