package handlers

import (
	"context"
	"errors"
	"net/http"

	"foldermail/internal/config"
	"foldermail/internal/folders"
	"foldermail/internal/middleware"
	"foldermail/internal/sse"

	"github.com/gin-gonic/gin"
)

// Handler HTTP处理器
type Handler struct {
	config     *config.Config
	controller *folders.Controller
	sseService *sse.Service
}

// New 创建处理器实例
func New(cfg *config.Config, controller *folders.Controller, sseService *sse.Service) *Handler {
	return &Handler{
		config:     cfg,
		controller: controller,
		sseService: sseService,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api/v1")
	{
		f := api.Group("/folders")
		{
			f.GET("", h.GetFolders)
			f.GET("/folder", h.GetFolder)
			f.POST("/load", h.LoadFolders)
			f.POST("/delete", h.DeleteFolder)
			f.POST("/delete/cancel", h.CancelDelete)
			f.POST("/subscribe", h.ToggleSubscription)
			f.POST("/checkable", h.ToggleCheckable)
			f.POST("/kolab-type", h.SetKolabType)
			f.POST("/create", h.CreateFolder)
			f.POST("/system", h.SystemFolder)
			f.DELETE("/error", h.ClearError)
		}

		api.GET("/kolab-types", h.GetKolabTypes)
		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.UpdateSettings)

		s := api.Group("/sse")
		{
			s.GET("", h.HandleSSE)
			s.GET("/stats", h.GetSSEStats)
		}
	}
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "foldermail",
		"remote":  h.config.Remote.Mode,
	})
}

// SuccessResponse 成功响应结构
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// respondWithSuccess 返回成功响应
func (h *Handler) respondWithSuccess(c *gin.Context, data interface{}, message ...string) {
	response := SuccessResponse{
		Success: true,
		Data:    data,
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusOK, response)
}

// respondWithFolderError 按错误类型返回状态码
func (h *Handler) respondWithFolderError(c *gin.Context, err error) {
	var fe *folders.Error
	switch {
	case errors.Is(err, folders.ErrFolderNotFound) && errors.As(err, &fe):
		middleware.HandleNotFoundError(c, "folder", fe.Folder)
	case errors.Is(err, folders.ErrFolderNotFound):
		middleware.HandleError(c, err, http.StatusNotFound)
	case errors.Is(err, folders.ErrNonEmptyFolder), errors.Is(err, folders.ErrNotSelectable):
		middleware.HandleError(c, err, http.StatusConflict)
	case errors.Is(err, folders.ErrCannotDelete):
		middleware.HandleError(c, err, http.StatusForbidden)
	case errors.Is(err, folders.ErrInvalidKolabType):
		middleware.HandleError(c, err, http.StatusBadRequest)
	case errors.Is(err, folders.ErrStopped), errors.Is(err, folders.ErrNoDialogs):
		middleware.HandleServiceUnavailableError(c, "folders", err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		middleware.HandleError(c, err, http.StatusGatewayTimeout)
	default:
		middleware.HandleError(c, err, http.StatusInternalServerError)
	}
}

// bindJSON 绑定JSON请求体
func (h *Handler) bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		middleware.HandleValidationError(c, "body", err.Error())
		return false
	}
	return true
}
