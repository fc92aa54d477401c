package folders

import (
	"time"

	"foldermail/internal/models"
)

// ConfirmState 删除确认状态
type ConfirmState string

const (
	ConfirmIdle  ConfirmState = "idle"
	ConfirmArmed ConfirmState = "armed"
)

// Confirmation 全局唯一的删除确认槽
// 值类型，所有转换都返回新值
type Confirmation struct {
	State   ConfirmState  `json:"state"`
	Target  string        `json:"target,omitempty"`
	ArmedAt time.Time     `json:"armed_at,omitempty"`
	Timeout time.Duration `json:"-"` // 0 表示不过期
}

// NewConfirmation 创建空闲状态
func NewConfirmation(timeout time.Duration) Confirmation {
	return Confirmation{State: ConfirmIdle, Timeout: timeout}
}

// Arm 指向新的目标，替换之前的目标
func (c Confirmation) Arm(target string, now time.Time) Confirmation {
	return Confirmation{State: ConfirmArmed, Target: target, ArmedAt: now, Timeout: c.Timeout}
}

// Cancel 回到空闲
func (c Confirmation) Cancel() Confirmation {
	return NewConfirmation(c.Timeout)
}

// Expired 已指向目标但超时
func (c Confirmation) Expired(now time.Time) bool {
	return c.State == ConfirmArmed && c.Timeout > 0 && now.Sub(c.ArmedAt) >= c.Timeout
}

// Current 当前有效的目标
func (c Confirmation) Current(now time.Time) (string, bool) {
	if c.State != ConfirmArmed || c.Expired(now) {
		return "", false
	}
	return c.Target, true
}

// IsArmed 目标是否正在等待确认
func (c Confirmation) IsArmed(target string, now time.Time) bool {
	current, ok := c.Current(now)
	return ok && current == target
}

// Ask 一次删除操作：不可选或策略不允许时不变；
// 目标已指向时返回 confirmed；否则指向该目标
func (c Confirmation) Ask(folder *models.Folder, canBeDeleted bool, now time.Time) (next Confirmation, confirmed bool) {
	if folder == nil || !folder.Selectable || !canBeDeleted {
		return c, false
	}
	if c.IsArmed(folder.FullName, now) {
		return c, true
	}
	return c.Arm(folder.FullName, now), false
}
