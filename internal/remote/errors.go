package remote

import (
	"context"
	"errors"
	"fmt"
)

// Code 通知代码
type Code int

const (
	CodeInvalidToken             Code = 101
	CodeAuthError                Code = 102
	CodeConnectionError          Code = 104
	CodeCantGetFolderList        Code = 201
	CodeCantCreateFolder         Code = 400
	CodeCantRenameFolder         Code = 401
	CodeCantDeleteFolder         Code = 402
	CodeCantSubscribeFolder      Code = 403
	CodeCantUnsubscribeFolder    Code = 404
	CodeCantDeleteNonEmptyFolder Code = 405
	CodeCantSaveSettings         Code = 501
	CodeRequestAborted           Code = 901
	CodeUnknownError             Code = 999
)

// Error 远端错误
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error %d", e.Code)
	}
	return fmt.Sprintf("remote error %d: %s", e.Code, e.Message)
}

// Unwrap 实现errors.Unwrap接口
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按错误代码比较
func (e *Error) Is(target error) bool {
	if re, ok := target.(*Error); ok {
		return e.Code == re.Code
	}
	return false
}

// ErrAborted 用于 errors.Is 判断请求是否被取消
var ErrAborted = &Error{Code: CodeRequestAborted}

// NewError 创建远端错误
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError 将任意错误转换为 *Error，fallback 为无法识别时使用的代码
func AsError(err error, fallback Code) *Error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Code: CodeRequestAborted, Message: err.Error(), Cause: err}
	}
	return &Error{Code: fallback, Message: err.Error(), Cause: err}
}
