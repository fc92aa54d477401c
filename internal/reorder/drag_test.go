package reorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

func (t *fakeTimer) fire() {
	if !t.stopped {
		t.fn()
	}
}

type timerRecorder struct {
	timers []*fakeTimer
}

func (r *timerRecorder) afterFunc(d time.Duration, f func()) timer {
	t := &fakeTimer{fn: f, delay: d}
	r.timers = append(r.timers, t)
	return t
}

func (r *timerRecorder) last() *fakeTimer {
	return r.timers[len(r.timers)-1]
}

// newList 创建一个包含三行的文件夹列表，每行高30
func newList() (list, a, b, c *Element) {
	list = NewElement("list", false)
	a = NewElement("INBOX/A", true)
	a.Rect = Rect{Top: 0, Height: 30}
	b = NewElement("INBOX/B", true)
	b.Rect = Rect{Top: 30, Height: 30}
	c = NewElement("INBOX/C", true)
	c.Rect = Rect{Top: 60, Height: 30}
	list.Append(a, b, c)
	return list, a, b, c
}

func TestHoverPlacement(t *testing.T) {
	list, a, b, c := newList()
	ctrl := NewController()

	require.True(t, ctrl.Start("INBOX/A", a))
	defer ctrl.End()
	assert.True(t, ctrl.Installed(list))

	// 下半部分：插到候选元素之后
	assert.True(t, ctrl.Hover(list, c, c.Rect.Top+c.Rect.Height*0.75))
	assert.Equal(t, []string{"INBOX/B", "INBOX/C", "INBOX/A"}, list.ChildIDs())

	// 上半部分：插到候选元素之前
	assert.True(t, ctrl.Hover(list, b, b.Rect.Top+b.Rect.Height*0.25))
	assert.Equal(t, []string{"INBOX/A", "INBOX/B", "INBOX/C"}, list.ChildIDs())
	assert.Equal(t, 2, ctrl.Moves())
}

func TestHoverIsIdempotent(t *testing.T) {
	list, a, _, c := newList()
	ctrl := NewController()
	ctrl.Start("INBOX/A", a)
	defer ctrl.End()

	y := c.Rect.Top + c.Rect.Height*0.75
	assert.True(t, ctrl.Hover(list, c, y))
	assert.False(t, ctrl.Hover(list, c, y), "同一位置再次悬停不应移动")
	assert.Equal(t, 1, ctrl.Moves())
}

func TestHoverAlreadyInPlace(t *testing.T) {
	list, a, b, _ := newList()
	ctrl := NewController()
	ctrl.Start("INBOX/A", a)
	defer ctrl.End()

	// A 已经在 B 之前
	assert.False(t, ctrl.Hover(list, b, b.Rect.Top+1))
	assert.Equal(t, 0, ctrl.Moves())
	assert.Equal(t, []string{"INBOX/A", "INBOX/B", "INBOX/C"}, list.ChildIDs())
}

func TestHoverUsesClosestDraggable(t *testing.T) {
	list, a, _, c := newList()
	label := NewElement("label", false)
	c.Append(label)

	ctrl := NewController()
	ctrl.Start("INBOX/A", a)
	defer ctrl.End()

	assert.True(t, ctrl.Hover(list, label, c.Rect.Top+c.Rect.Height))
	assert.Equal(t, []string{"INBOX/B", "INBOX/C", "INBOX/A"}, list.ChildIDs())

	// 指针在被拖动元素自身上
	icon := NewElement("icon", false)
	a.Append(icon)
	assert.False(t, ctrl.Hover(list, icon, 0))
}

func TestHoverIgnored(t *testing.T) {
	list, a, b, _ := newList()
	other, x, _, _ := newList()

	ctrl := NewController()

	// 没有拖动
	assert.False(t, ctrl.Hover(list, b, 59))

	ctrl.Start("INBOX/A", a)
	defer ctrl.End()

	// 候选元素不在容器内
	assert.False(t, ctrl.Hover(list, x, 29))
	// 容器未安装处理
	assert.False(t, ctrl.Installed(other))
	assert.False(t, ctrl.Hover(other, x, 29))
	assert.False(t, ctrl.Hover(list, nil, 29))
	assert.Equal(t, 0, ctrl.Moves())
}

func TestLiftAndReset(t *testing.T) {
	list, a, _, c := newList()
	timers := &timerRecorder{}
	ctrl := NewController(WithLiftDelay(50*time.Millisecond), withAfterFunc(timers.afterFunc))

	ctrl.Start("INBOX/A", a)
	require.Len(t, timers.timers, 1)
	assert.Equal(t, 50*time.Millisecond, timers.last().delay)
	assert.False(t, a.Lifted())

	timers.last().fire()
	assert.True(t, a.Lifted())

	active := ctrl.Active()
	require.NotNil(t, active)
	assert.Equal(t, ActionRename, active.Action)
	assert.Equal(t, "INBOX/A", active.Folder)
	assert.Same(t, a, active.Element)

	ctrl.Hover(list, c, 89)
	ctrl.End()
	assert.Nil(t, ctrl.Active())
	assert.False(t, a.Lifted())
	assert.True(t, ctrl.Installed(list), "安装标记在拖动结束后保留")
}

func TestLiftedPolledDuringDrag(t *testing.T) {
	_, a, _, _ := newList()
	ctrl := NewController(WithLiftDelay(time.Millisecond))

	require.True(t, ctrl.Start("INBOX/A", a))
	assert.Eventually(t, a.Lifted, time.Second, time.Millisecond)

	ctrl.End()
	assert.False(t, a.Lifted())
}

func TestEndBeforeLift(t *testing.T) {
	_, a, _, _ := newList()
	timers := &timerRecorder{}
	ctrl := NewController(withAfterFunc(timers.afterFunc))

	ctrl.Start("INBOX/A", a)
	ctrl.End()
	timers.last().fire()
	assert.False(t, a.Lifted())
}

func TestDropInvokesHook(t *testing.T) {
	list, a, _, c := newList()
	var events []DropEvent
	ctrl := NewController(WithDropHook(func(e DropEvent) {
		events = append(events, e)
	}))

	ctrl.Start("INBOX/A", a)
	ctrl.Hover(list, c, 80)
	assert.True(t, ctrl.Drop(list))

	require.Len(t, events, 1)
	assert.Equal(t, "INBOX/A", events[0].Folder)
	assert.Equal(t, 0, events[0].From)
	assert.Equal(t, 2, events[0].To)
	assert.Equal(t, []string{"INBOX/B", "INBOX/C", "INBOX/A"}, events[0].Order)
	assert.Nil(t, ctrl.Active())

	// 拖动已结束
	assert.False(t, ctrl.Drop(list))
	assert.Len(t, events, 1)
}

func TestElementInsert(t *testing.T) {
	list, a, b, c := newList()

	c.Before(a)
	assert.Equal(t, []string{"INBOX/B", "INBOX/A", "INBOX/C"}, list.ChildIDs())
	assert.Same(t, c, a.NextSibling())
	assert.Same(t, b, a.PrevSibling())

	// 不能插到自己的后代旁边
	child := NewElement("child", true)
	a.Append(child)
	child.After(a)
	assert.Same(t, list, a.Parent())
	assert.True(t, list.Contains(child))
	assert.Nil(t, c.NextSibling())
	assert.Nil(t, b.PrevSibling())
}
