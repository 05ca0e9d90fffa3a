// Package response 统一 HTTP 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body 统一响应体
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Body{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// ErrorWithStatus 按 HTTP 状态码返回错误
func ErrorWithStatus(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Body{
		Code:    status,
		Message: message,
		Data:    data,
	})
}
