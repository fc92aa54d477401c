package folders

import (
	"errors"
	"fmt"

	"foldermail/internal/remote"
)

// ErrorKind 错误分类
type ErrorKind string

const (
	// KindLocalPrecondition 本地前置条件不满足，不会发出远端请求
	KindLocalPrecondition ErrorKind = "local_precondition"
	// KindRemoteFailure 远端拒绝
	KindRemoteFailure ErrorKind = "remote_failure"
	// KindUnreported 远端失败但不展示给用户
	KindUnreported ErrorKind = "unreported"
)

var (
	ErrFolderNotFound   = errors.New("folder not found")
	ErrCannotDelete     = errors.New("folder cannot be deleted")
	ErrNotSelectable    = errors.New("folder is not selectable")
	ErrNonEmptyFolder   = errors.New("folder is not empty")
	ErrInvalidKolabType = errors.New("invalid kolab folder type")
	ErrNoDialogs        = errors.New("no dialog collaborator configured")
	ErrStopped          = errors.New("folder controller stopped")
)

// Error 文件夹操作错误
type Error struct {
	Kind   ErrorKind
	Code   remote.Code
	Folder string
	Err    error
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.Folder != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Folder, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap 实现errors.Unwrap接口
func (e *Error) Unwrap() error {
	return e.Err
}

func precondition(folder string, code remote.Code, err error) *Error {
	return &Error{Kind: KindLocalPrecondition, Code: code, Folder: folder, Err: err}
}

// KindOf 返回错误分类，非 *Error 返回空串
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
