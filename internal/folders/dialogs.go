package folders

import (
	"context"

	"foldermail/internal/sse"
)

// 对话框名称
const (
	DialogCreateFolder = "folder_create"
	DialogSystemFolder = "folder_system"
)

// Dialogs 创建文件夹和系统文件夹设置对话框
type Dialogs interface {
	CreateFolder(ctx context.Context) error
	SystemFolder(ctx context.Context) error
}

// EventDialogs 通过 SSE 请求前端打开对话框
type EventDialogs struct {
	Publisher sse.EventPublisher
}

// CreateFolder 打开创建文件夹对话框
func (d *EventDialogs) CreateFolder(ctx context.Context) error {
	return d.open(ctx, DialogCreateFolder)
}

// SystemFolder 打开系统文件夹设置对话框
func (d *EventDialogs) SystemFolder(ctx context.Context) error {
	return d.open(ctx, DialogSystemFolder)
}

func (d *EventDialogs) open(ctx context.Context, dialog string) error {
	return d.Publisher.Publish(ctx, sse.NewEvent(sse.EventDialogRequested, &sse.DialogEventData{Dialog: dialog}))
}

// CreateFolder 打开创建文件夹对话框
func (c *Controller) CreateFolder(ctx context.Context) error {
	if c.opts.Dialogs == nil {
		return ErrNoDialogs
	}
	return c.opts.Dialogs.CreateFolder(ctx)
}

// SystemFolder 打开系统文件夹设置对话框
func (c *Controller) SystemFolder(ctx context.Context) error {
	if c.opts.Dialogs == nil {
		return ErrNoDialogs
	}
	return c.opts.Dialogs.SystemFolder(ctx)
}
