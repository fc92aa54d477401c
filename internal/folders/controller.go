package folders

import (
	"context"
	"log"
	"slices"
	"time"

	"foldermail/internal/cache"
	"foldermail/internal/i18n"
	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/reorder"
	"foldermail/internal/sse"
)

// 进行中请求计数器名称
const (
	BusyDeleting = "FoldersDeleting"
	BusyLoading  = "Folders"
)

// DefaultConfirmTimeout 删除确认自动复位时间
const DefaultConfirmTimeout = 3 * time.Second

// DeleteStatus 删除操作结果
type DeleteStatus string

const (
	// DeleteArmed 第一次点击，等待确认
	DeleteArmed DeleteStatus = "armed"
	// DeleteIssued 已发出远端删除请求
	DeleteIssued DeleteStatus = "issued"
	// DeleteRejected 本地拒绝，未发出请求
	DeleteRejected DeleteStatus = "rejected"
)

// Settings 文件夹视图设置
type Settings struct {
	HideUnsubscribed   bool `json:"hide_unsubscribed"`
	UnhideKolabFolders bool `json:"unhide_kolab_folders"`
}

// Options 控制器选项
type Options struct {
	Account             string
	Translator          *i18n.Translator
	Policy              DeletePolicy
	Dialogs             Dialogs
	Publisher           sse.EventPublisher
	Drag                *reorder.Controller
	LiftDelay           time.Duration // 未指定 Drag 时使用
	ConfirmTimeout      time.Duration
	DiscardStaleDeletes bool // 只应用同一文件夹最后一次删除请求的结果
	Settings            Settings
	Debug               bool
	Now                 func() time.Time
}

// Controller 文件夹树控制器
// 所有状态只在 dispatcher 协程中读写
type Controller struct {
	remote     remote.Service
	opts       Options
	dispatcher *Dispatcher

	cache     *cache.FolderCache
	roots     []string
	confirm   Confirmation
	listError string
	settings  Settings

	deleting *remote.Busy
	loading  *remote.Busy

	deleted   map[string]bool   // 已删除但仍有子文件夹的节点
	deleteSeq map[string]uint64 // 每个文件夹最后一次删除请求的序号

	refreshSeq uint64 // 只接受序号等于它的列表结果
}

// NewController 创建并启动控制器
func NewController(service remote.Service, opts Options) *Controller {
	if opts.Translator == nil {
		opts.Translator = i18n.New("en")
	}
	if opts.Policy == nil {
		opts.Policy = SystemFolderPolicy
	}
	if opts.Publisher == nil {
		opts.Publisher = sse.NoopPublisher{}
	}
	if opts.ConfirmTimeout == 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{
		remote:     service,
		opts:       opts,
		dispatcher: NewDispatcher(),
		cache:      cache.NewFolderCache(),
		confirm:    NewConfirmation(opts.ConfirmTimeout),
		settings:   opts.Settings,
		deleting:   remote.NewBusy(BusyDeleting),
		loading:    remote.NewBusy(BusyLoading),
		deleted:    make(map[string]bool),
		deleteSeq:  make(map[string]uint64),
	}

	if opts.Drag == nil {
		dragOpts := []reorder.Option{reorder.WithDropHook(c.publishMove)}
		if opts.LiftDelay > 0 {
			dragOpts = append(dragOpts, reorder.WithLiftDelay(opts.LiftDelay))
		}
		c.opts.Drag = reorder.NewController(dragOpts...)
	}

	c.dispatcher.Start()
	return c
}

// Close 停止控制器
func (c *Controller) Close() {
	c.opts.Drag.End()
	c.dispatcher.Stop()
}

// Busy 返回删除和加载计数器
func (c *Controller) Busy() (deleting, loading *remote.Busy) {
	return c.deleting, c.loading
}

// Load 用远端列表替换整棵树
func (c *Controller) Load(ctx context.Context, infos []models.FolderInfo) error {
	return c.dispatcher.Do(ctx, func() {
		c.load(infos)
	})
}

func (c *Controller) load(infos []models.FolderInfo) {
	c.cache.Clear()
	c.roots = nil
	c.deleted = make(map[string]bool)
	c.deleteSeq = make(map[string]uint64)
	c.confirm = c.confirm.Cancel()

	for i := range infos {
		info := &infos[i]
		if info.FullName == "" {
			continue
		}
		folder := &models.Folder{
			FullName:     info.FullName,
			ParentName:   info.ParentName(),
			Name:         info.Name(),
			Delimiter:    info.Delimiter,
			Type:         info.Type,
			TotalEmails:  info.TotalEmails,
			UnreadEmails: info.UnreadEmails,
			Selectable:   info.Selectable,
			Checkable:    info.Checkable,
			IsSubscribed: info.Subscribed,
			KolabType:    info.KolabType,
		}
		if folder.Type == "" {
			folder.Type = models.FolderTypeCustom
			if folder.IsRoot() {
				folder.Type = models.DetectFolderType(folder.Name)
			}
		}
		c.cache.Set(folder)
	}

	// 第二遍按列表顺序连接父子关系，父节点缺失时挂到根
	for i := range infos {
		folder, ok := c.cache.Get(infos[i].FullName)
		if !ok {
			continue
		}
		if parent, ok := c.cache.Get(folder.ParentName); ok {
			if !parent.HasSubFolder(folder.FullName) {
				parent.SubFolders = append(parent.SubFolders, folder.FullName)
			}
			continue
		}
		if !slices.Contains(c.roots, folder.FullName) {
			c.roots = append(c.roots, folder.FullName)
		}
	}

	c.publish(sse.EventFoldersLoaded, &sse.FoldersLoadedEventData{
		Total: c.cache.Size(),
		Roots: append([]string(nil), c.roots...),
	})
	log.Printf("[INFO] Loaded %d folders for %s", c.cache.Size(), c.opts.Account)
}

// Refresh 从远端重新获取文件夹列表
func (c *Controller) Refresh(ctx context.Context) error {
	return c.dispatcher.Do(ctx, func() {
		c.refreshSeq++
		seq := c.refreshSeq
		c.remote.Request(context.WithoutCancel(ctx), remote.ActionFolders, c.loading, nil, func(resp *remote.Response, err error) {
			var infos []models.FolderInfo
			if err == nil {
				if decodeErr := resp.Decode(&infos); decodeErr != nil {
					err = remote.AsError(decodeErr, remote.CodeCantGetFolderList)
				}
			}
			c.dispatcher.Post(func() {
				c.completeRefresh(seq, infos, err)
			})
		})
	})
}

func (c *Controller) completeRefresh(seq uint64, infos []models.FolderInfo, err error) {
	if seq != c.refreshSeq {
		c.debugf("Discarding superseded folder list result")
		return
	}
	if err != nil {
		re := remote.AsError(err, remote.CodeCantGetFolderList)
		if re.Code == remote.CodeRequestAborted {
			c.debugf("Folder list request aborted")
			return
		}
		c.listError = c.opts.Translator.Notification(re.Code, remote.CodeCantGetFolderList)
		log.Printf("[WARN] Failed to load folder list: %v", re)
		return
	}
	c.listError = ""
	c.load(infos)
}

// Folder 获取节点副本
func (c *Controller) Folder(ctx context.Context, fullName string) (*models.Folder, error) {
	var folder *models.Folder
	err := c.dispatcher.Do(ctx, func() {
		if f, ok := c.cache.Get(fullName); ok {
			folder = f.Clone()
		}
	})
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, precondition(fullName, 0, ErrFolderNotFound)
	}
	return folder, nil
}

// ListError 当前列表级错误
func (c *Controller) ListError(ctx context.Context) (string, error) {
	var msg string
	err := c.dispatcher.Do(ctx, func() {
		msg = c.listError
	})
	return msg, err
}

// HideError 清除列表级错误
func (c *Controller) HideError(ctx context.Context) error {
	return c.dispatcher.Do(ctx, func() {
		c.listError = ""
	})
}

// OnShow 打开文件夹设置页面时清除旧错误
func (c *Controller) OnShow(ctx context.Context) error {
	return c.HideError(ctx)
}

func (c *Controller) lookup(fullName string) (*models.Folder, error) {
	folder, ok := c.cache.Get(fullName)
	if !ok {
		return nil, precondition(fullName, 0, ErrFolderNotFound)
	}
	return folder, nil
}

func (c *Controller) publish(eventType sse.EventType, data interface{}) {
	event := sse.NewEvent(eventType, data)
	event.Account = c.opts.Account
	if err := c.opts.Publisher.Publish(context.Background(), event); err != nil {
		c.debugf("Failed to publish %s: %v", eventType, err)
	}
}

func (c *Controller) debugf(format string, args ...interface{}) {
	if c.opts.Debug {
		log.Printf("[DEBUG] "+format, args...)
	}
}
