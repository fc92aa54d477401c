package folders

import (
	"context"

	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/sse"
)

// ToggleSubscription 切换订阅状态，本地立即生效
func (c *Controller) ToggleSubscription(ctx context.Context, fullName string) (bool, error) {
	var (
		value bool
		opErr error
	)
	err := c.dispatcher.Do(ctx, func() {
		folder, err := c.lookup(fullName)
		if err != nil {
			opErr = err
			return
		}
		folder.IsSubscribed = !folder.IsSubscribed
		value = folder.IsSubscribed

		c.mirror(ctx, remote.ActionFolderSubscribe, remote.Params{
			"folder":    fullName,
			"subscribe": remote.BoolParam(value),
		})
		c.publish(sse.EventFolderUpdated, &sse.FolderEventData{Folder: fullName, IsSubscribed: &value})
	})
	if err != nil {
		return false, err
	}
	return value, opErr
}

// ToggleCheckable 切换是否检查新邮件
func (c *Controller) ToggleCheckable(ctx context.Context, fullName string) (bool, error) {
	var (
		value bool
		opErr error
	)
	err := c.dispatcher.Do(ctx, func() {
		folder, err := c.lookup(fullName)
		if err != nil {
			opErr = err
			return
		}
		folder.Checkable = !folder.Checkable
		value = folder.Checkable

		c.mirror(ctx, remote.ActionFolderCheckable, remote.Params{
			"folder":    fullName,
			"checkable": remote.BoolParam(value),
		})
		c.publish(sse.EventFolderUpdated, &sse.FolderEventData{Folder: fullName, Checkable: &value})
	})
	if err != nil {
		return false, err
	}
	return value, opErr
}

// SetKolabType 设置 Kolab 文件夹类型，值不变时不发请求
func (c *Controller) SetKolabType(ctx context.Context, fullName string, kolabType models.KolabType) error {
	if !kolabType.IsValid() {
		return precondition(fullName, 0, ErrInvalidKolabType)
	}

	var opErr error
	err := c.dispatcher.Do(ctx, func() {
		folder, err := c.lookup(fullName)
		if err != nil {
			opErr = err
			return
		}
		if folder.KolabType == kolabType {
			return
		}
		folder.KolabType = kolabType

		c.mirror(ctx, remote.ActionFolderSetMetadata, remote.Params{
			"folder": fullName,
			"key":    models.KolabFolderTypeKey,
			"value":  string(kolabType),
		})
		c.publish(sse.EventFolderUpdated, &sse.FolderEventData{Folder: fullName, KolabType: string(kolabType)})
	})
	if err != nil {
		return err
	}
	return opErr
}

// mirror 发出请求但不处理结果，失败只记录调试日志
func (c *Controller) mirror(ctx context.Context, action remote.Action, params remote.Params) {
	c.remote.Request(context.WithoutCancel(ctx), action, nil, params, func(_ *remote.Response, err error) {
		if err != nil {
			c.debugf("%s failed: %v", action, err)
		}
	})
}
