package folders

import (
	"context"

	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/sse"
)

// DeleteFolder 删除文件夹
// 第一次调用只指向确认槽，同一文件夹的第二次调用才发出请求
func (c *Controller) DeleteFolder(ctx context.Context, fullName string) (DeleteStatus, error) {
	var (
		status DeleteStatus
		opErr  error
	)
	err := c.dispatcher.Do(ctx, func() {
		status, opErr = c.deleteFolder(ctx, fullName)
	})
	if err != nil {
		return DeleteRejected, err
	}
	return status, opErr
}

func (c *Controller) deleteFolder(ctx context.Context, fullName string) (DeleteStatus, error) {
	now := c.opts.Now()
	if c.confirm.Expired(now) {
		c.confirm = c.confirm.Cancel()
	}

	folder, err := c.lookup(fullName)
	if err != nil {
		return DeleteRejected, err
	}

	canBeDeleted := c.opts.Policy.CanBeDeleted(folder)
	if !canBeDeleted {
		return DeleteRejected, precondition(fullName, remote.CodeCantDeleteFolder, ErrCannotDelete)
	}
	if !folder.Selectable {
		return DeleteRejected, precondition(fullName, remote.CodeCantDeleteFolder, ErrNotSelectable)
	}

	next, confirmed := c.confirm.Ask(folder, canBeDeleted, now)
	if !confirmed {
		c.confirm = next
		c.debugf("Delete of %s armed", fullName)
		return DeleteArmed, nil
	}

	if folder.TotalEmails > 0 {
		folder.ErrorMsg = c.opts.Translator.Notification(remote.CodeCantDeleteNonEmptyFolder, remote.CodeCantDeleteFolder)
		c.publish(sse.EventFolderUpdated, &sse.FolderEventData{
			Folder:       fullName,
			ErrorMessage: folder.ErrorMsg,
		})
		return DeleteRejected, precondition(fullName, remote.CodeCantDeleteNonEmptyFolder, ErrNonEmptyFolder)
	}

	c.confirm = c.confirm.Cancel()
	c.remote.Abort(remote.ActionFolders)
	c.refreshSeq++ // 删除前发出的列表不再加载

	c.deleteSeq[fullName]++
	seq := c.deleteSeq[fullName]

	c.remote.Request(context.WithoutCancel(ctx), remote.ActionFolderDelete, c.deleting,
		remote.Params{"folder": fullName},
		func(_ *remote.Response, err error) {
			c.dispatcher.Post(func() {
				c.completeDelete(fullName, seq, err)
			})
		})

	return DeleteIssued, nil
}

func (c *Controller) completeDelete(fullName string, seq uint64, err error) {
	latest := c.deleteSeq[fullName] == seq
	if latest {
		delete(c.deleteSeq, fullName)
	} else if c.opts.DiscardStaleDeletes {
		c.debugf("Discarding stale delete result for %s", fullName)
		return
	}

	if err != nil {
		re := remote.AsError(err, remote.CodeCantDeleteFolder)
		c.listError = c.opts.Translator.Notification(re.Code, remote.CodeCantDeleteFolder) + ".\n" + re.Message
		c.publish(sse.EventFolderDeleteFailed, &sse.FolderEventData{
			Folder:       fullName,
			ErrorMessage: c.listError,
		})
		return
	}

	folder, ok := c.cache.Get(fullName)
	if !ok {
		return
	}

	folder.Selectable = false
	folder.ErrorMsg = ""
	c.deleted[fullName] = true

	removed := folder.IsLeaf()
	if removed {
		c.removeFolder(folder)
	}

	selectable := false
	c.publish(sse.EventFolderDeleted, &sse.FolderEventData{
		Folder:     fullName,
		ParentName: folder.ParentName,
		Removed:    removed,
		Selectable: &selectable,
	})
}

// removeFolder 从缓存和父节点列表中移除
// 已删除的父节点失去最后一个子节点时一并移除
func (c *Controller) removeFolder(folder *models.Folder) {
	c.cache.Delete(folder.FullName)
	delete(c.deleted, folder.FullName)
	if c.confirm.Target == folder.FullName {
		c.confirm = c.confirm.Cancel()
	}

	parent, ok := c.cache.Get(folder.ParentName)
	if !ok {
		c.roots, _ = models.RemoveName(c.roots, folder.FullName)
		return
	}

	parent.RemoveSubFolder(folder.FullName)
	if parent.IsLeaf() && c.deleted[parent.FullName] {
		c.removeFolder(parent)
	}
}

// CancelDelete 复位确认槽
func (c *Controller) CancelDelete(ctx context.Context) error {
	return c.dispatcher.Do(ctx, func() {
		c.confirm = c.confirm.Cancel()
	})
}

// Armed 当前等待确认的文件夹
func (c *Controller) Armed(ctx context.Context) (string, bool, error) {
	var (
		target string
		ok     bool
	)
	err := c.dispatcher.Do(ctx, func() {
		target, ok = c.confirm.Current(c.opts.Now())
	})
	return target, ok, err
}
