package handlers

import (
	"github.com/gin-gonic/gin"

	"foldermail/internal/middleware"
	"foldermail/internal/models"
)

// FolderRequest 以完整路径指定文件夹
type FolderRequest struct {
	Folder string `json:"folder" binding:"required"`
}

// KolabTypeRequest 设置Kolab类型
type KolabTypeRequest struct {
	Folder    string `json:"folder" binding:"required"`
	KolabType string `json:"kolab_type"`
}

// GetFolders 获取文件夹树
func (h *Handler) GetFolders(c *gin.Context) {
	tree, err := h.controller.Tree(c.Request.Context())
	if err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, tree)
}

// GetFolder 获取单个文件夹，?name=INBOX/Old
func (h *Handler) GetFolder(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		middleware.HandleValidationError(c, "name", "is required")
		return
	}

	folder, err := h.controller.Folder(c.Request.Context(), name)
	if err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, folder)
}

// LoadFolders 从远端重新加载文件夹列表，结果通过 SSE 推送
func (h *Handler) LoadFolders(c *gin.Context) {
	if err := h.controller.Refresh(c.Request.Context()); err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, nil, "Folder list requested")
}

// DeleteFolder 删除文件夹，第一次调用返回 armed，第二次发出删除请求
func (h *Handler) DeleteFolder(c *gin.Context) {
	var req FolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := h.controller.DeleteFolder(c.Request.Context(), req.Folder)
	if err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, gin.H{
		"folder": req.Folder,
		"status": status,
	})
}

// CancelDelete 取消等待确认的删除
func (h *Handler) CancelDelete(c *gin.Context) {
	if err := h.controller.CancelDelete(c.Request.Context()); err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, nil)
}

// ToggleSubscription 切换订阅
func (h *Handler) ToggleSubscription(c *gin.Context) {
	var req FolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	subscribed, err := h.controller.ToggleSubscription(c.Request.Context(), req.Folder)
	if err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, gin.H{
		"folder":        req.Folder,
		"is_subscribed": subscribed,
	})
}

// ToggleCheckable 切换是否检查新邮件
func (h *Handler) ToggleCheckable(c *gin.Context) {
	var req FolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	checkable, err := h.controller.ToggleCheckable(c.Request.Context(), req.Folder)
	if err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, gin.H{
		"folder":    req.Folder,
		"checkable": checkable,
	})
}

// SetKolabType 设置Kolab类型
func (h *Handler) SetKolabType(c *gin.Context) {
	var req KolabTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	kolabType := models.KolabType(req.KolabType)
	if err := h.controller.SetKolabType(c.Request.Context(), req.Folder, kolabType); err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, gin.H{
		"folder":     req.Folder,
		"kolab_type": kolabType,
	})
}

// CreateFolder 打开创建文件夹对话框
func (h *Handler) CreateFolder(c *gin.Context) {
	if err := h.controller.CreateFolder(c.Request.Context()); err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, nil)
}

// SystemFolder 打开系统文件夹设置对话框
func (h *Handler) SystemFolder(c *gin.Context) {
	if err := h.controller.SystemFolder(c.Request.Context()); err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, nil)
}

// ClearError 清除列表级错误
func (h *Handler) ClearError(c *gin.Context) {
	if err := h.controller.HideError(c.Request.Context()); err != nil {
		h.respondWithFolderError(c, err)
		return
	}
	h.respondWithSuccess(c, nil)
}

// GetKolabTypes 获取Kolab类型选项
func (h *Handler) GetKolabTypes(c *gin.Context) {
	h.respondWithSuccess(c, h.controller.KolabTypeOptions())
}
