package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"foldermail/internal/middleware"
)

// HandleSSE 处理SSE连接，阻塞到客户端断开
func (h *Handler) HandleSSE(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		clientID = uuid.New().String()
	}

	// 放宽要求，支持EventSource默认行为
	accept := c.GetHeader("Accept")
	if accept != "" && accept != "text/event-stream" && accept != "*/*" {
		middleware.HandleValidationError(c, "Accept", "this endpoint requires text/event-stream")
		return
	}

	if err := h.sseService.HandleConnection(c.Writer, c.Request, clientID); err != nil {
		middleware.HandleError(c, err, http.StatusInternalServerError)
	}
}

// GetSSEStats 获取SSE统计信息
func (h *Handler) GetSSEStats(c *gin.Context) {
	h.respondWithSuccess(c, h.sseService.GetStats())
}
