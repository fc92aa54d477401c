package remote

import (
	"context"
	"encoding/json"
)

// Action 远端操作名称
type Action string

const (
	ActionFolders           Action = "Folders"
	ActionFolderDelete      Action = "FolderDelete"
	ActionFolderSubscribe   Action = "FolderSubscribe"
	ActionFolderCheckable   Action = "FolderCheckable"
	ActionFolderSetMetadata Action = "FolderSetMetadata"
	ActionSettingsUpdate    Action = "SettingsUpdate"
)

// Params 请求参数
type Params map[string]interface{}

// Response 成功结果
type Response struct {
	Action Action          `json:"Action"`
	Result json.RawMessage `json:"Result,omitempty"`
}

// Decode 将结果解码到 v
func (r *Response) Decode(v interface{}) error {
	if r == nil || len(r.Result) == 0 {
		return nil
	}
	return json.Unmarshal(r.Result, v)
}

// Callback 完成回调，每次请求恰好调用一次
// err 不为 nil 时一定是 *Error
type Callback func(resp *Response, err error)

// Service 远端文件夹服务
type Service interface {
	// Request 异步发起请求，立即返回，回调在其他协程中执行
	// busy 可以为 nil
	Request(ctx context.Context, action Action, busy *Busy, params Params, callback Callback)

	// Abort 取消指定操作所有进行中的请求，被取消的请求以 CodeRequestAborted 完成
	Abort(action Action)
}

// BoolParam 将布尔值编码为 0/1
func BoolParam(v bool) int {
	if v {
		return 1
	}
	return 0
}
