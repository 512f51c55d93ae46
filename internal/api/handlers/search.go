package handlers

import (
	"net/http"

	"integrated-cart/internal/core/mall"
	"integrated-cart/internal/core/search"
	"integrated-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchRequest 食材搜尋請求
type SearchRequest struct {
	UserID         string   `json:"userId" binding:"required"`
	Keyword        string   `json:"keyword" binding:"required"`
	RequiredAmount float64  `json:"requiredAmount"`
	Malls          []string `json:"malls,omitempty"` // 省略或含 ALL 時搜尋所有商城
	LowSugar       bool     `json:"lowSugar"`        // 低糖篩選
}

// SearchResponse 食材搜尋響應
type SearchResponse struct {
	Stale  bool           `json:"stale"`
	Result *search.Result `json:"result,omitempty"`
}

// HandleSearch 對選定商城發出一次彙總搜尋。
// 同一使用者隨後發出的搜尋會讓先前的搜尋失效：較早的搜尋若較晚完成，
// 其結果被丟棄並以 stale 標記回覆，畫面不會被舊資料覆蓋。
func (h *Handler) HandleSearch(c *gin.Context) {
	reqID := requestID(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	malls := make([]mall.Type, 0, len(req.Malls))
	for _, raw := range req.Malls {
		t, err := mall.ParseType(raw)
		if err != nil {
			common.LogWarn("忽略不支援的商城類型",
				zap.String("mall", raw),
				zap.String("request_id", reqID),
			)
			continue
		}
		malls = append(malls, t)
	}
	// 指定了過濾條件但沒有任何可辨識的商城：不得默默退回全商城搜尋
	if len(req.Malls) > 0 && len(malls) == 0 {
		abortWithError(c, common.ErrUnknownMall)
		return
	}

	seq := h.tracker.Begin(req.UserID)
	result := h.searcher.Search(c.Request.Context(), req.Keyword, req.RequiredAmount, malls, req.LowSugar)

	if !h.tracker.Accept(req.UserID, seq) {
		common.LogInfo("搜尋結果已過期",
			zap.String("keyword", req.Keyword),
			zap.Uint64("seq", seq),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusOK, SearchResponse{Stale: true})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{Result: result})
}

// HandleMallLink 回傳商城搜尋頁連結，供「前往商城」的逃生出口使用
func (h *Handler) HandleMallLink(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	t, err := mall.ParseType(c.Query("mall"))
	if err != nil || t == mall.All {
		abortWithError(c, common.ErrUnknownMall)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mall": t,
		"link": mall.SearchLink(t, keyword),
	})
}
