package handlers

import (
	"net/http"

	"integrated-cart/internal/core/aimodel"
	"integrated-cart/internal/core/bridge"
	"integrated-cart/internal/core/cart"
	"integrated-cart/internal/core/checkout"
	"integrated-cart/internal/core/recipe"
	"integrated-cart/internal/core/search"
	"integrated-cart/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler 整合購物車 API 處理程序
type Handler struct {
	catalog    *aimodel.CatalogClient
	analyzer   *recipe.Analyzer
	searcher   *search.Orchestrator
	tracker    *search.Tracker
	cartStore  *cart.Store
	registrar  *cart.Registrar
	checkouter *checkout.Orchestrator
	bridge     *bridge.Client
}

// NewHandler 創建新的處理程序
func NewHandler(
	catalog *aimodel.CatalogClient,
	analyzer *recipe.Analyzer,
	searcher *search.Orchestrator,
	tracker *search.Tracker,
	cartStore *cart.Store,
	registrar *cart.Registrar,
	checkouter *checkout.Orchestrator,
	bridgeClient *bridge.Client,
) *Handler {
	return &Handler{
		catalog:    catalog,
		analyzer:   analyzer,
		searcher:   searcher,
		tracker:    tracker,
		cartStore:  cartStore,
		registrar:  registrar,
		checkouter: checkouter,
		bridge:     bridgeClient,
	}
}

// requestID 取得或生成請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.New().String()
		c.Header("X-Request-ID", id)
	}
	return id
}

// abortWithError 以統一格式回傳錯誤
func abortWithError(c *gin.Context, err error) {
	if custom, ok := err.(*common.CustomError); ok {
		c.JSON(custom.Status, common.ErrorResponse{
			Code:    custom.Code,
			Message: custom.Message,
		})
		return
	}
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "Internal server error",
	})
}
