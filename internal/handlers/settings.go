package handlers

import (
	"github.com/gin-gonic/gin"
)

// UpdateSettingsRequest 只更新提供的字段
type UpdateSettingsRequest struct {
	HideUnsubscribed   *bool `json:"hide_unsubscribed"`
	UnhideKolabFolders *bool `json:"unhide_kolab_folders"`
}

// GetSettings 获取视图设置
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.controller.Settings(c.Request.Context())
	if err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, settings)
}

// UpdateSettings 更新视图设置，值变化时才转发到远端
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if req.HideUnsubscribed != nil {
		if err := h.controller.SetHideUnsubscribed(ctx, *req.HideUnsubscribed); err != nil {
			h.respondWithFolderError(c, err)
			return
		}
	}
	if req.UnhideKolabFolders != nil {
		if err := h.controller.SetUnhideKolabFolders(ctx, *req.UnhideKolabFolders); err != nil {
			h.respondWithFolderError(c, err)
			return
		}
	}

	h.GetSettings(c)
}
