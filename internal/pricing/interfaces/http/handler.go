package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/energyderivatives/internal/pricing/application"
	"github.com/wyfcoding/energyderivatives/pkg/logger"
	"github.com/wyfcoding/energyderivatives/pkg/response"
)

// HTTP 处理器
// 负责处理价差期权估值相关的 HTTP 请求
type PricingHandler struct {
	service *application.PricingService
}

// 创建 HTTP 处理器实例
func NewPricingHandler(service *application.PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// 注册路由
// 将处理器方法绑定到 Gin 路由引擎
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/v1/pricing")
	{
		api.POST("/spread-option", h.PriceSpreadOption)
		api.GET("/spread-option/:fingerprint", h.GetValuation)
		api.DELETE("/spread-option/:fingerprint", h.InvalidateValuation)
		api.GET("/valuations", h.ListRecentValuations)
	}
}

// PriceSpreadOption 价差期权估值
func (h *PricingHandler) PriceSpreadOption(c *gin.Context) {
	var cmd application.PriceSpreadOptionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.service.PriceSpreadOption(c.Request.Context(), cmd)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to price spread option", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, result)
}

// GetValuation 按指纹查询历史估值
func (h *PricingHandler) GetValuation(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	if fingerprint == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "fingerprint is required", nil)
		return
	}

	cached, record, err := h.service.GetValuation(c.Request.Context(), fingerprint)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to look up valuation", "fingerprint", fingerprint, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if cached != nil {
		response.Success(c, cached)
		return
	}
	if record != nil {
		response.Success(c, record)
		return
	}

	response.ErrorWithStatus(c, http.StatusNotFound, "valuation not found", nil)
}

// InvalidateValuation 删除指纹对应的缓存估值，强制下次重新计算
func (h *PricingHandler) InvalidateValuation(c *gin.Context) {
	fingerprint := c.Param("fingerprint")
	if fingerprint == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "fingerprint is required", nil)
		return
	}

	if err := h.service.InvalidateValuation(c.Request.Context(), fingerprint); err != nil {
		logger.Error(c.Request.Context(), "Failed to invalidate valuation cache", "fingerprint", fingerprint, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, gin.H{"fingerprint": fingerprint})
}

// ListRecentValuations 查询最近的估值留底
func (h *PricingHandler) ListRecentValuations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.service.ListRecentValuations(c.Request.Context(), limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list valuations", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	response.Success(c, gin.H{
		"valuations": records,
		"count":      len(records),
	})
}
