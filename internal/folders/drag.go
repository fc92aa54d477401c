package folders

import (
	"foldermail/internal/reorder"
	"foldermail/internal/sse"
)

// DragStart 开始拖动文件夹
func (c *Controller) DragStart(fullName string, element *reorder.Element) bool {
	return c.opts.Drag.Start(fullName, element)
}

// DragHover 悬停，返回是否移动了元素
func (c *Controller) DragHover(container, target *reorder.Element, clientY float64) bool {
	return c.opts.Drag.Hover(container, target, clientY)
}

// Drop 放下
func (c *Controller) Drop(container *reorder.Element) bool {
	return c.opts.Drag.Drop(container)
}

// DragEnd 结束拖动
func (c *Controller) DragEnd() {
	c.opts.Drag.End()
}

// publishMove 默认放下钩子，只广播新顺序
func (c *Controller) publishMove(event reorder.DropEvent) {
	c.publish(sse.EventFolderMoved, &sse.FolderMovedEventData{
		Folder: event.Folder,
		From:   event.From,
		To:     event.To,
		Order:  event.Order,
	})
}
