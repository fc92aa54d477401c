package remote

import (
	"context"
	"sync"
)

// inflight 记录进行中的请求，供 Abort 使用
type inflight struct {
	mu    sync.Mutex
	seq   uint64
	calls map[Action]map[uint64]context.CancelFunc
}

func newInflight() *inflight {
	return &inflight{calls: make(map[Action]map[uint64]context.CancelFunc)}
}

func (f *inflight) add(action Action, cancel context.CancelFunc) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	if f.calls[action] == nil {
		f.calls[action] = make(map[uint64]context.CancelFunc)
	}
	f.calls[action][f.seq] = cancel
	return f.seq
}

func (f *inflight) remove(action Action, id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.calls[action], id)
	if len(f.calls[action]) == 0 {
		delete(f.calls, action)
	}
}

func (f *inflight) abort(action Action) int {
	f.mu.Lock()
	calls := f.calls[action]
	delete(f.calls, action)
	f.mu.Unlock()

	for _, cancel := range calls {
		cancel()
	}
	return len(calls)
}

func (f *inflight) pending(action Action) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls[action])
}

// run 在新协程中执行 fn，负责计数、取消登记和恰好一次的回调
func (f *inflight) run(ctx context.Context, action Action, busy *Busy, fallback Code, callback Callback, fn func(ctx context.Context) (*Response, error)) {
	callCtx, cancel := context.WithCancel(ctx)
	id := f.add(action, cancel)
	busy.Inc()

	go func() {
		defer cancel()

		resp, err := fn(callCtx)
		// 不支持 context 的命令在取消后仍可能成功返回，按取消处理
		if ctxErr := callCtx.Err(); ctxErr != nil {
			resp, err = nil, ctxErr
		}

		f.remove(action, id)
		busy.Dec()

		if callback == nil {
			return
		}
		if err != nil {
			callback(nil, AsError(err, fallback))
			return
		}
		if resp == nil {
			resp = &Response{Action: action}
		}
		callback(resp, nil)
	}()
}

// fallbackCode 各操作默认的错误代码
func fallbackCode(action Action) Code {
	switch action {
	case ActionFolders:
		return CodeCantGetFolderList
	case ActionFolderDelete:
		return CodeCantDeleteFolder
	case ActionFolderSubscribe:
		return CodeCantSubscribeFolder
	case ActionSettingsUpdate:
		return CodeCantSaveSettings
	}
	return CodeUnknownError
}
