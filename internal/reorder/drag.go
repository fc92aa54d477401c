package reorder

import (
	"sync"
	"time"
)

// DragAction 拖动动作
type DragAction string

// ActionRename 文件夹拖动在远端对应的是重命名（移动层级）
const ActionRename DragAction = "RENAME"

// TransferType 拖动数据的 MIME 类型和值
const (
	TransferType  = "text/plain"
	TransferValue = "foldermail/folder/RENAME"
)

// DragData 当前拖动上下文
type DragData struct {
	Action  DragAction
	Folder  string
	Element *Element
}

// DropEvent 放下时交给提交钩子的信息
// Order 是容器内子元素的当前展示顺序
type DropEvent struct {
	Folder    string
	Container *Element
	From      int
	To        int
	Order     []string
}

// DropHook 放下钩子，排序的持久化不在这里实现
type DropHook func(event DropEvent)

// timer 可停止的延迟任务
type timer interface {
	Stop() bool
}

// Controller 管理一次拖动手势
type Controller struct {
	mutex sync.Mutex

	drag      *DragData
	from      int
	liftTimer timer
	moves     int

	liftDelay time.Duration
	afterFunc func(d time.Duration, f func()) timer
	onDrop    DropHook
}

// Option 控制器选项
type Option func(*Controller)

// WithLiftDelay 设置半透明效果的延迟
func WithLiftDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.liftDelay = d
	}
}

// WithDropHook 设置放下钩子
func WithDropHook(hook DropHook) Option {
	return func(c *Controller) {
		c.onDrop = hook
	}
}

// withAfterFunc 测试用的定时器替换
func withAfterFunc(fn func(d time.Duration, f func()) timer) Option {
	return func(c *Controller) {
		c.afterFunc = fn
	}
}

// NewController 创建拖动控制器
func NewController(opts ...Option) *Controller {
	c := &Controller{
		liftDelay: 100 * time.Millisecond,
		afterFunc: func(d time.Duration, f func()) timer {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start 开始拖动，在元素所在容器上安装一次悬停/放下处理
func (c *Controller) Start(folder string, element *Element) bool {
	if element == nil {
		return false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.resetLocked()

	c.drag = &DragData{
		Action:  ActionRename,
		Folder:  folder,
		Element: element,
	}
	c.from = element.Index()

	drag := c.drag
	c.liftTimer = c.afterFunc(c.liftDelay, func() {
		c.mutex.Lock()
		defer c.mutex.Unlock()
		if c.drag == drag {
			element.lifted.Store(true)
		}
	})

	if parent := element.parent; parent != nil {
		parent.sortable = true
	}
	return true
}

// Installed 容器是否已安装悬停/放下处理
func (c *Controller) Installed(container *Element) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return container != nil && container.sortable
}

// Active 当前拖动上下文，没有时返回 nil
func (c *Controller) Active() *DragData {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.drag == nil {
		return nil
	}
	d := *c.drag
	return &d
}

// Hover 处理容器上的悬停，返回是否移动了被拖动元素
// 指针在候选元素上半部分时插到其前面，否则插到后面；已在目标位置时不移动
func (c *Controller) Hover(container, target *Element, clientY float64) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.drag == nil || container == nil || target == nil || !container.sortable {
		return false
	}

	node := target.ClosestDraggable()
	dragged := c.drag.Element
	if node == nil || node == dragged || !container.Contains(node) {
		return false
	}

	if node.Rect.Top+node.Rect.Height/2 <= clientY {
		if node.NextSibling() != dragged {
			node.After(dragged)
			c.moves++
			return true
		}
	} else if node.PrevSibling() != dragged {
		node.Before(dragged)
		c.moves++
		return true
	}
	return false
}

// Moves 元素实际被移动的次数
func (c *Controller) Moves() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.moves
}

// Drop 处理放下，调用提交钩子后清除拖动上下文
func (c *Controller) Drop(container *Element) bool {
	c.mutex.Lock()
	if c.drag == nil || container == nil || !container.sortable {
		c.mutex.Unlock()
		return false
	}

	dragged := c.drag.Element
	event := DropEvent{
		Folder:    c.drag.Folder,
		Container: container,
		From:      c.from,
		To:        dragged.Index(),
	}
	if parent := dragged.parent; parent != nil {
		event.Order = parent.ChildIDs()
	}
	hook := c.onDrop
	c.resetLocked()
	c.mutex.Unlock()

	if hook != nil {
		hook(event)
	}
	return true
}

// End 结束拖动，无论是否放下都清除状态
func (c *Controller) End() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	if c.liftTimer != nil {
		c.liftTimer.Stop()
		c.liftTimer = nil
	}
	if c.drag != nil {
		c.drag.Element.lifted.Store(false)
	}
	c.drag = nil
	c.from = -1
}
