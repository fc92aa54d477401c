package folders

import (
	"context"
	"sync"
	"testing"
	"time"

	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/sse"

	"github.com/stretchr/testify/require"
)

type stubCall struct {
	action   remote.Action
	params   remote.Params
	busy     *remote.Busy
	callback remote.Callback
}

// stubRemote 记录请求，由测试手动完成
type stubRemote struct {
	mutex  sync.Mutex
	calls  []*stubCall
	aborts []remote.Action
}

func (s *stubRemote) Request(_ context.Context, action remote.Action, busy *remote.Busy, params remote.Params, callback remote.Callback) {
	busy.Inc()
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.calls = append(s.calls, &stubCall{action: action, params: params, busy: busy, callback: callback})
}

func (s *stubRemote) Abort(action remote.Action) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.aborts = append(s.aborts, action)
}

func (s *stubRemote) callsFor(action remote.Action) []*stubCall {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var out []*stubCall
	for _, call := range s.calls {
		if call.action == action {
			out = append(out, call)
		}
	}
	return out
}

func (s *stubRemote) abortCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.aborts)
}

func (c *stubCall) resolve(resp *remote.Response, err error) {
	c.busy.Dec()
	if resp == nil {
		resp = &remote.Response{Action: c.action}
	}
	c.callback(resp, err)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mutex  sync.Mutex
	events []*sse.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event *sse.Event) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []sse.EventType {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	var out []sse.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.now = f.now.Add(d)
}

// sampleFolders 测试用的文件夹列表
func sampleFolders() []models.FolderInfo {
	return []models.FolderInfo{
		{FullName: "INBOX", Delimiter: "/", Selectable: true, Subscribed: true, TotalEmails: 12},
		{FullName: "INBOX/Archive", Delimiter: "/", Selectable: true, Subscribed: true, TotalEmails: 5},
		{FullName: "INBOX/Old", Delimiter: "/", Selectable: true, Subscribed: true},
		{FullName: "Projects", Delimiter: "/", Selectable: true, Subscribed: false},
		{FullName: "Projects/2023", Delimiter: "/", Selectable: true, Subscribed: true},
		{FullName: "Projects/2024", Delimiter: "/", Selectable: true, Subscribed: true},
		{FullName: "Calendar", Delimiter: "/", Selectable: true, Subscribed: true, KolabType: models.KolabTypeEvent},
	}
}

type fixture struct {
	remote    *stubRemote
	publisher *recordingPublisher
	clock     *fakeClock
	ctrl      *Controller
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()

	f := &fixture{
		remote:    &stubRemote{},
		publisher: &recordingPublisher{},
		clock:     &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
	}
	opts := Options{
		Account:   "user@example.com",
		Publisher: f.publisher,
		Now:       f.clock.Now,
	}
	for _, m := range mutate {
		m(&opts)
	}

	f.ctrl = NewController(f.remote, opts)
	t.Cleanup(f.ctrl.Close)

	require.NoError(t, f.ctrl.Load(context.Background(), sampleFolders()))
	return f
}

// confirmDelete 连续两次删除，返回第二次的结果
func (f *fixture) confirmDelete(t *testing.T, name string) (DeleteStatus, error) {
	t.Helper()
	status, err := f.ctrl.DeleteFolder(context.Background(), name)
	require.NoError(t, err)
	require.Equal(t, DeleteArmed, status)
	return f.ctrl.DeleteFolder(context.Background(), name)
}

func (f *fixture) folder(t *testing.T, name string) *models.Folder {
	t.Helper()
	folder, err := f.ctrl.Folder(context.Background(), name)
	require.NoError(t, err)
	return folder
}

func (f *fixture) exists(name string) bool {
	_, err := f.ctrl.Folder(context.Background(), name)
	return err == nil
}
