package folders

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Dispatcher 单协程任务循环
// 用户操作和远端回调都投递到这里执行，因此树和缓存不需要加锁
type Dispatcher struct {
	mutex   sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
	started bool
}

// NewDispatcher 创建任务循环
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Start 启动循环协程，重复调用无效
func (d *Dispatcher) Start() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.loop()
}

// Stop 停止循环，已排队但未执行的任务被丢弃
func (d *Dispatcher) Stop() {
	d.mutex.Lock()
	if d.stopped {
		d.mutex.Unlock()
		return
	}
	d.stopped = true
	d.queue = nil
	d.mutex.Unlock()

	close(d.done)
}

// Post 投递任务，不等待执行；循环已停止时返回 false
// 可以在循环协程内部调用
func (d *Dispatcher) Post(fn func()) bool {
	d.mutex.Lock()
	if d.stopped {
		d.mutex.Unlock()
		return false
	}
	d.queue = append(d.queue, fn)
	d.mutex.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

// Do 投递任务并等待执行完成
// ctx 先于任务开始被取消时任务不会执行；任务已开始则等待其完成
// 不能在循环协程内部调用
func (d *Dispatcher) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var state atomic.Int32 // taskPending, taskStarted, taskAbandoned
	finished := make(chan struct{})
	if !d.Post(func() {
		defer close(finished)
		if !state.CompareAndSwap(taskPending, taskStarted) {
			return
		}
		fn()
	}) {
		return ErrStopped
	}

	select {
	case <-finished:
		return nil
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		if state.CompareAndSwap(taskPending, taskAbandoned) {
			return ctx.Err()
		}
		<-finished
		return nil
	}
}

const (
	taskPending int32 = iota
	taskStarted
	taskAbandoned
)

func (d *Dispatcher) loop() {
	for {
		select {
		case <-d.done:
			return
		case <-d.wake:
		}

		for {
			d.mutex.Lock()
			if d.stopped || len(d.queue) == 0 {
				d.mutex.Unlock()
				break
			}
			fn := d.queue[0]
			d.queue[0] = nil
			d.queue = d.queue[1:]
			d.mutex.Unlock()

			d.run(fn)
		}
	}
}

func (d *Dispatcher) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] Folder task panic recovered: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}
