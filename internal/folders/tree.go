package folders

import (
	"context"
	"time"

	"foldermail/internal/models"
)

// FolderView 展示用的节点
type FolderView struct {
	*models.Folder
	Children     []*FolderView `json:"children"`
	Armed        bool          `json:"armed"`
	CanBeDeleted bool          `json:"can_be_deleted"`
	Hidden       bool          `json:"hidden"`
}

// TreeView 整棵树的快照
type TreeView struct {
	Folders      []*FolderView `json:"folders"`
	Total        int           `json:"total"`
	ListError    string        `json:"list_error,omitempty"`
	Loading      bool          `json:"loading"`
	Deleting     bool          `json:"deleting"`
	Confirmation Confirmation  `json:"confirmation"`
	Settings     Settings      `json:"settings"`
}

// Tree 返回当前树的快照，节点均为副本
func (c *Controller) Tree(ctx context.Context) (*TreeView, error) {
	var view *TreeView
	err := c.dispatcher.Do(ctx, func() {
		now := c.opts.Now()
		if c.confirm.Expired(now) {
			c.confirm = c.confirm.Cancel()
		}

		view = &TreeView{
			Folders:      c.views(c.roots, now),
			Total:        c.cache.Size(),
			ListError:    c.listError,
			Loading:      c.loading.Active(),
			Deleting:     c.deleting.Active(),
			Confirmation: c.confirm,
			Settings:     c.settings,
		}
	})
	return view, err
}

func (c *Controller) views(names []string, now time.Time) []*FolderView {
	views := make([]*FolderView, 0, len(names))
	for _, name := range names {
		folder, ok := c.cache.Get(name)
		if !ok {
			continue
		}
		views = append(views, &FolderView{
			Folder:       folder.Clone(),
			Children:     c.views(folder.SubFolders, now),
			Armed:        c.confirm.IsArmed(name, now),
			CanBeDeleted: c.opts.Policy.CanBeDeleted(folder),
			Hidden:       c.hidden(folder),
		})
	}
	return views
}

// hidden 按视图设置判断是否隐藏
func (c *Controller) hidden(folder *models.Folder) bool {
	if c.settings.HideUnsubscribed && !folder.IsSubscribed {
		return true
	}
	return folder.KolabType != models.KolabTypeNone && !c.settings.UnhideKolabFolders
}
