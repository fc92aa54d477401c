package remote

import "sync/atomic"

// Busy 某类进行中请求的计数器，只用于显示进度，不阻塞后续请求
type Busy struct {
	name  string
	count atomic.Int64
}

// NewBusy 创建计数器
func NewBusy(name string) *Busy {
	return &Busy{name: name}
}

// Name 计数器名称
func (b *Busy) Name() string {
	return b.name
}

// Inc 请求发出
func (b *Busy) Inc() {
	if b != nil {
		b.count.Add(1)
	}
}

// Dec 请求完成
func (b *Busy) Dec() {
	if b != nil {
		b.count.Add(-1)
	}
}

// Count 当前进行中的数量
func (b *Busy) Count() int {
	if b == nil {
		return 0
	}
	return int(b.count.Load())
}

// Active 是否有进行中的请求
func (b *Busy) Active() bool {
	return b.Count() > 0
}
