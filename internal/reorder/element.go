package reorder

import "sync/atomic"

// Rect 元素的垂直边界
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Element 展示层节点，对应文件夹列表中的一行或一个容器
type Element struct {
	ID        string
	Draggable bool
	Rect      Rect

	parent   *Element
	children []*Element

	lifted   atomic.Bool // 拖动中的半透明状态，由延时协程写入
	sortable bool        // 容器已安装悬停/放下处理
}

// NewElement 创建元素
func NewElement(id string, draggable bool) *Element {
	return &Element{ID: id, Draggable: draggable}
}

// Append 追加子元素，已有父元素的先移出
func (e *Element) Append(children ...*Element) *Element {
	for _, child := range children {
		child.detach()
		child.parent = e
		e.children = append(e.children, child)
	}
	return e
}

// Parent 父元素
func (e *Element) Parent() *Element {
	return e.parent
}

// Children 子元素副本
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// ChildIDs 子元素ID，按当前顺序
func (e *Element) ChildIDs() []string {
	ids := make([]string, 0, len(e.children))
	for _, child := range e.children {
		ids = append(ids, child.ID)
	}
	return ids
}

// Index 在父元素中的位置，没有父元素返回 -1
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	for i, sibling := range e.parent.children {
		if sibling == e {
			return i
		}
	}
	return -1
}

// NextSibling 后一个兄弟元素
func (e *Element) NextSibling() *Element {
	i := e.Index()
	if i < 0 || i+1 >= len(e.parent.children) {
		return nil
	}
	return e.parent.children[i+1]
}

// PrevSibling 前一个兄弟元素
func (e *Element) PrevSibling() *Element {
	i := e.Index()
	if i <= 0 {
		return nil
	}
	return e.parent.children[i-1]
}

// Contains 是否为自身或后代
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// ClosestDraggable 自身或最近的可拖动祖先
func (e *Element) ClosestDraggable() *Element {
	for n := e; n != nil; n = n.parent {
		if n.Draggable {
			return n
		}
	}
	return nil
}

// Before 将 node 插到 e 之前
func (e *Element) Before(node *Element) {
	e.insert(node, 0)
}

// After 将 node 插到 e 之后
func (e *Element) After(node *Element) {
	e.insert(node, 1)
}

// Lifted 是否处于拖动中的半透明状态
func (e *Element) Lifted() bool {
	return e.lifted.Load()
}

func (e *Element) insert(node *Element, offset int) {
	if e.parent == nil || node.Contains(e) {
		return
	}
	node.detach()

	parent := e.parent
	at := e.Index() + offset
	parent.children = append(parent.children, nil)
	copy(parent.children[at+1:], parent.children[at:])
	parent.children[at] = node
	node.parent = parent
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	i := e.Index()
	e.parent.children = append(e.parent.children[:i], e.parent.children[i+1:]...)
	e.parent = nil
}
