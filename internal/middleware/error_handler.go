package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

var developmentMode = true

// SetDevelopmentMode 开发模式下响应中包含错误细节
func SetDevelopmentMode(enabled bool) {
	developmentMode = enabled
}

// ErrorHandler 错误处理中间件
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if err, ok := recovered.(string); ok {
			handlePanicError(c, err)
		} else if err, ok := recovered.(error); ok {
			handlePanicError(c, err.Error())
		} else {
			handlePanicError(c, fmt.Sprintf("Unknown error: %v", recovered))
		}
	})
}

// handlePanicError 处理panic错误
func handlePanicError(c *gin.Context, err string) {
	log.Printf("[ERROR] Panic recovered: %s", err)
	if developmentMode {
		log.Printf("[ERROR] Stack trace: %s", debug.Stack())
	}

	response := ErrorResponse{
		Success: false,
		Error:   "Internal Server Error",
		Message: "An unexpected error occurred",
		Code:    "INTERNAL_ERROR",
	}
	if developmentMode {
		response.Details = err
	}

	c.JSON(http.StatusInternalServerError, response)
	c.Abort()
}

// HandleError 处理业务错误
func HandleError(c *gin.Context, err error, statusCode int) {
	if err == nil {
		return
	}

	if statusCode >= http.StatusInternalServerError {
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}

	response := ErrorResponse{
		Success: false,
		Error:   getErrorMessage(statusCode),
		Message: err.Error(),
		Code:    getErrorCode(statusCode),
	}
	if developmentMode {
		response.Details = map[string]interface{}{
			"error_type": fmt.Sprintf("%T", err),
		}
	}

	c.JSON(statusCode, response)
	c.Abort()
}

// HandleValidationError 处理验证错误
func HandleValidationError(c *gin.Context, field string, message string) {
	response := ErrorResponse{
		Success: false,
		Error:   "Validation Error",
		Message: fmt.Sprintf("Validation failed for field '%s': %s", field, message),
		Code:    "VALIDATION_ERROR",
		Details: map[string]string{
			"field":   field,
			"message": message,
		},
	}

	c.JSON(http.StatusBadRequest, response)
	c.Abort()
}

// HandleNotFoundError 处理资源不存在错误
func HandleNotFoundError(c *gin.Context, resource string, id interface{}) {
	response := ErrorResponse{
		Success: false,
		Error:   "Resource Not Found",
		Message: fmt.Sprintf("%s '%v' not found", resource, id),
		Code:    "NOT_FOUND",
		Details: map[string]interface{}{
			"resource": resource,
			"id":       id,
		},
	}

	c.JSON(http.StatusNotFound, response)
	c.Abort()
}

// HandleServiceUnavailableError 处理服务不可用错误
func HandleServiceUnavailableError(c *gin.Context, service string, reason string) {
	response := ErrorResponse{
		Success: false,
		Error:   "Service Unavailable",
		Message: fmt.Sprintf("Service '%s' is currently unavailable: %s", service, reason),
		Code:    "SERVICE_UNAVAILABLE",
		Details: map[string]string{
			"service": service,
			"reason":  reason,
		},
	}

	c.JSON(http.StatusServiceUnavailable, response)
	c.Abort()
}

// getErrorMessage 根据状态码获取错误消息
func getErrorMessage(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusUnprocessableEntity:
		return "Unprocessable Entity"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	case http.StatusServiceUnavailable:
		return "Service Unavailable"
	case http.StatusGatewayTimeout:
		return "Gateway Timeout"
	default:
		return "Unknown Error"
	}
}

// getErrorCode 根据状态码获取错误代码
func getErrorCode(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case http.StatusGatewayTimeout:
		return "GATEWAY_TIMEOUT"
	default:
		return "UNKNOWN_ERROR"
	}
}
