package handlers

import (
	"net/http"

	"integrated-cart/internal/core/aimodel"
	"integrated-cart/internal/core/recipe"
	"integrated-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModelsResponse 模型目錄響應：合格子集與預設選擇
type ModelsResponse struct {
	Models   []aimodel.Model `json:"models"`
	Selected string          `json:"selected"`
}

// HandleModels 依目前輸入回傳合格模型子集與預設選擇。
// input 為空時視為文字輸入；selected 是前端先前的選擇，
// 失效時由伺服器重新選定，合格集非空時選擇必不為空。
func (h *Handler) HandleModels(c *gin.Context) {
	input := c.Query("input")
	previous := c.Query("selected")

	catalog := h.catalog.FetchCatalog(c.Request.Context())
	eval := aimodel.Evaluate(catalog, input, previous)

	c.JSON(http.StatusOK, ModelsResponse{
		Models:   eval.Eligible,
		Selected: eval.Selected,
	})
}

// AnalyzeRequest 分析請求
type AnalyzeRequest struct {
	Input     string `json:"input" binding:"required"` // 料理名稱或影片連結
	ModelName string `json:"modelName,omitempty"`
	Portion   int    `json:"portion,omitempty"` // 目標人分，預設與食譜基準相同
}

// AnalyzeResponse 分析響應：食譜與換算後的食材清單
type AnalyzeResponse struct {
	Recipe      *recipe.Recipe            `json:"recipe"`
	Portion     int                       `json:"portion"`
	Ingredients []recipe.ScaledIngredient `json:"ingredients"`
}

// HandleAnalyze 分析料理名稱或影片連結並回傳換算後的食材清單
func (h *Handler) HandleAnalyze(c *gin.Context) {
	reqID := requestID(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	r, err := h.analyzer.Analyze(c.Request.Context(), req.Input, req.ModelName)
	if err != nil {
		common.LogError("食譜分析失敗",
			zap.Error(err),
			zap.String("request_id", reqID),
		)
		abortWithError(c, err)
		return
	}

	portion := req.Portion
	if portion <= 0 {
		portion = r.BasePortion
	}

	scaled, err := recipe.Scale(r, portion)
	if err != nil {
		// 食譜人分資料不完整：保留食譜名稱，食材清單為空
		common.LogWarn("食材換算略過",
			zap.Error(err),
			zap.String("request_id", reqID),
			zap.String("recipe", r.Name),
		)
		scaled = nil
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Recipe:      r,
		Portion:     portion,
		Ingredients: scaled,
	})
}

// ScaleRequest 換算請求
type ScaleRequest struct {
	Recipe  recipe.Recipe `json:"recipe" binding:"required"`
	Portion int           `json:"portion" binding:"required"`
}

// HandleScale 依目標人分重新換算整份食材清單
func (h *Handler) HandleScale(c *gin.Context) {
	var req ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	scaled, err := recipe.Scale(&req.Recipe, req.Portion)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"portion":     req.Portion,
		"ingredients": scaled,
	})
}
