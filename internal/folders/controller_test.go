package folders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"foldermail/internal/models"
	"foldermail/internal/remote"
	"foldermail/internal/reorder"
	"foldermail/internal/sse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuildsTree(t *testing.T) {
	f := newFixture(t)

	tree, err := f.ctrl.Tree(context.Background())
	require.NoError(t, err)

	var roots []string
	for _, v := range tree.Folders {
		roots = append(roots, v.FullName)
	}
	assert.Equal(t, []string{"INBOX", "Projects", "Calendar"}, roots)
	assert.Equal(t, 7, tree.Total)

	inbox := tree.Folders[0]
	assert.Equal(t, models.FolderTypeInbox, inbox.Type)
	assert.False(t, inbox.CanBeDeleted, "系统文件夹不能删除")
	require.Len(t, inbox.Children, 2)
	assert.Equal(t, "INBOX/Archive", inbox.Children[0].FullName)
	assert.Equal(t, models.FolderTypeCustom, inbox.Children[0].Type, "只有顶层文件夹识别系统类型")
	assert.Equal(t, "Archive", inbox.Children[0].Name)
	assert.Equal(t, "INBOX", inbox.Children[0].ParentName)

	assert.Contains(t, f.publisher.types(), sse.EventFoldersLoaded)
}

func TestLoadOrphanBecomesRoot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Load(context.Background(), []models.FolderInfo{
		{FullName: "Lost/Child", Delimiter: "/", Selectable: true},
	}))

	tree, err := f.ctrl.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree.Folders, 1)
	assert.Equal(t, "Lost/Child", tree.Folders[0].FullName)
	assert.False(t, f.exists("INBOX"), "重新加载替换整棵树")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, err := f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	require.NoError(t, err)
	assert.Equal(t, DeleteArmed, status)
	assert.Empty(t, f.remote.callsFor(remote.ActionFolderDelete))

	target, ok, err := f.ctrl.Armed(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "INBOX/Old", target)

	status, err = f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	require.NoError(t, err)
	assert.Equal(t, DeleteIssued, status)

	calls := f.remote.callsFor(remote.ActionFolderDelete)
	require.Len(t, calls, 1)
	assert.Equal(t, "INBOX/Old", calls[0].params["folder"])
	assert.Equal(t, 1, f.remote.abortCount(), "删除前取消文件夹列表请求")

	_, ok, err = f.ctrl.Armed(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "发出请求后确认槽复位")

	deleting, _ := f.ctrl.Busy()
	assert.Equal(t, 1, deleting.Count())
	calls[0].resolve(nil, nil)
	assert.Equal(t, 0, deleting.Count())
}

func TestDeleteLeafRemovesFromParent(t *testing.T) {
	f := newFixture(t)

	status, err := f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)
	require.Equal(t, DeleteIssued, status)

	assert.True(t, f.exists("INBOX/Old"), "成功回调前仍在缓存中")
	assert.Equal(t, []string{"INBOX/Archive", "INBOX/Old"}, f.folder(t, "INBOX").SubFolders)

	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil, nil)

	assert.False(t, f.exists("INBOX/Old"))
	assert.Equal(t, []string{"INBOX/Archive"}, f.folder(t, "INBOX").SubFolders)
	assert.Contains(t, f.publisher.types(), sse.EventFolderDeleted)
}

func TestDeleteRootLeafRemovesFromRoots(t *testing.T) {
	f := newFixture(t)

	_, err := f.confirmDelete(t, "Calendar")
	require.NoError(t, err)
	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil, nil)

	tree, err := f.ctrl.Tree(context.Background())
	require.NoError(t, err)
	for _, v := range tree.Folders {
		assert.NotEqual(t, "Calendar", v.FullName)
	}
	assert.Equal(t, 6, tree.Total)
}

func TestDeleteParentWithChildren(t *testing.T) {
	f := newFixture(t)

	_, err := f.confirmDelete(t, "Projects")
	require.NoError(t, err)
	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil, nil)

	projects := f.folder(t, "Projects")
	assert.False(t, projects.Selectable, "有子文件夹时只标记为不可选")
	assert.Len(t, projects.SubFolders, 2)

	status, err := f.ctrl.DeleteFolder(context.Background(), "Projects")
	assert.Equal(t, DeleteRejected, status)
	assert.ErrorIs(t, err, ErrNotSelectable)

	for _, name := range []string{"Projects/2023", "Projects/2024"} {
		_, err := f.confirmDelete(t, name)
		require.NoError(t, err)
	}
	for _, call := range f.remote.callsFor(remote.ActionFolderDelete)[1:] {
		call.resolve(nil, nil)
	}

	assert.False(t, f.exists("Projects/2023"))
	assert.False(t, f.exists("Projects"), "最后一个子文件夹删除后父文件夹一并移除")
}

func TestNonSelectableParentIsNotCascaded(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Load(context.Background(), []models.FolderInfo{
		{FullName: "Shared", Delimiter: "/", Selectable: false},
		{FullName: "Shared/Team", Delimiter: "/", Selectable: true},
	}))

	_, err := f.confirmDelete(t, "Shared/Team")
	require.NoError(t, err)
	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil, nil)

	assert.False(t, f.exists("Shared/Team"))
	assert.True(t, f.exists("Shared"), "未被删除的 \\Noselect 文件夹保留")
}

func TestDeleteNonEmptyFolder(t *testing.T) {
	f := newFixture(t)

	status, err := f.confirmDelete(t, "INBOX/Archive")
	assert.Equal(t, DeleteRejected, status)
	assert.ErrorIs(t, err, ErrNonEmptyFolder)
	assert.Equal(t, KindLocalPrecondition, KindOf(err))

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, remote.CodeCantDeleteNonEmptyFolder, fe.Code)

	assert.Equal(t, "Can't delete non-empty folder", f.folder(t, "INBOX/Archive").ErrorMsg)
	assert.Empty(t, f.remote.callsFor(remote.ActionFolderDelete))
	assert.Equal(t, []string{"INBOX/Archive", "INBOX/Old"}, f.folder(t, "INBOX").SubFolders)

	tree, err := f.ctrl.Tree(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, tree.Total, "缓存不变")

	target, ok, err := f.ctrl.Armed(context.Background())
	require.NoError(t, err)
	assert.True(t, ok, "非空时确认槽保持不变")
	assert.Equal(t, "INBOX/Archive", target)
}

func TestDeleteSystemFolderRefused(t *testing.T) {
	f := newFixture(t)

	status, err := f.ctrl.DeleteFolder(context.Background(), "INBOX")
	assert.Equal(t, DeleteRejected, status)
	assert.ErrorIs(t, err, ErrCannotDelete)

	_, ok, err := f.ctrl.Armed(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "策略拒绝时不指向确认槽")
}

func TestDeleteUnknownFolder(t *testing.T) {
	f := newFixture(t)

	status, err := f.ctrl.DeleteFolder(context.Background(), "Nope")
	assert.Equal(t, DeleteRejected, status)
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestRearmReplacesTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, _ := f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	assert.Equal(t, DeleteArmed, status)
	status, _ = f.ctrl.DeleteFolder(ctx, "Calendar")
	assert.Equal(t, DeleteArmed, status)
	status, _ = f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	assert.Equal(t, DeleteArmed, status, "目标被替换后需要重新确认")

	assert.Empty(t, f.remote.callsFor(remote.ActionFolderDelete))
}

func TestConfirmationExpires(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status, _ := f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	assert.Equal(t, DeleteArmed, status)

	f.clock.Advance(DefaultConfirmTimeout)

	status, _ = f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	assert.Equal(t, DeleteArmed, status, "超时后重新指向")
	assert.Empty(t, f.remote.callsFor(remote.ActionFolderDelete))
}

func TestCancelDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	require.NoError(t, f.ctrl.CancelDelete(ctx))

	status, _ := f.ctrl.DeleteFolder(ctx, "INBOX/Old")
	assert.Equal(t, DeleteArmed, status)
}

func TestDeleteRemoteFailure(t *testing.T) {
	f := newFixture(t)

	_, err := f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)
	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil,
		remote.NewError(remote.CodeCantDeleteFolder, "Permission denied"))

	msg, err := f.ctrl.ListError(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Can't delete folder.\nPermission denied", msg)

	old := f.folder(t, "INBOX/Old")
	assert.True(t, old.Selectable, "失败时节点不变")
	assert.Contains(t, f.publisher.types(), sse.EventFolderDeleteFailed)

	require.NoError(t, f.ctrl.HideError(context.Background()))
	msg, _ = f.ctrl.ListError(context.Background())
	assert.Empty(t, msg)
}

func TestDeleteFailureUnknownCodeFallsBack(t *testing.T) {
	f := newFixture(t, func(o *Options) {})

	_, err := f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)
	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil, remote.NewError(12345, "odd"))

	msg, _ := f.ctrl.ListError(context.Background())
	assert.Equal(t, "Can't delete folder.\nodd", msg)
}

func TestConcurrentDeletesLastCompletedWins(t *testing.T) {
	f := newFixture(t)

	_, err := f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)
	_, err = f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)

	calls := f.remote.callsFor(remote.ActionFolderDelete)
	require.Len(t, calls, 2)

	calls[1].resolve(nil, nil)
	calls[0].resolve(nil, remote.NewError(remote.CodeCantDeleteFolder, "gone"))

	assert.False(t, f.exists("INBOX/Old"))
	msg, _ := f.ctrl.ListError(context.Background())
	assert.Equal(t, "Can't delete folder.\ngone", msg, "每个完成结果都被应用")
}

func TestDiscardStaleDeletes(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.DiscardStaleDeletes = true })

	_, err := f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)
	_, err = f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)

	calls := f.remote.callsFor(remote.ActionFolderDelete)
	require.Len(t, calls, 2)

	calls[0].resolve(nil, remote.NewError(remote.CodeCantDeleteFolder, "stale"))
	msg, _ := f.ctrl.ListError(context.Background())
	assert.Empty(t, msg, "旧请求的结果被丢弃")

	calls[1].resolve(nil, nil)
	assert.False(t, f.exists("INBOX/Old"))
}

func TestToggleSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	value, err := f.ctrl.ToggleSubscription(ctx, "Projects")
	require.NoError(t, err)
	assert.True(t, value)
	assert.True(t, f.folder(t, "Projects").IsSubscribed, "本地立即生效")

	calls := f.remote.callsFor(remote.ActionFolderSubscribe)
	require.Len(t, calls, 1)
	assert.Equal(t, remote.Params{"folder": "Projects", "subscribe": 1}, calls[0].params)
	assert.Nil(t, calls[0].busy)

	calls[0].resolve(nil, remote.NewError(remote.CodeCantSubscribeFolder, "denied"))
	assert.True(t, f.folder(t, "Projects").IsSubscribed, "失败不回滚")
	msg, _ := f.ctrl.ListError(ctx)
	assert.Empty(t, msg, "失败不展示")

	value, err = f.ctrl.ToggleSubscription(ctx, "Projects")
	require.NoError(t, err)
	assert.False(t, value)
	assert.Equal(t, 0, f.remote.callsFor(remote.ActionFolderSubscribe)[1].params["subscribe"])

	_, err = f.ctrl.ToggleSubscription(ctx, "Nope")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestToggleCheckable(t *testing.T) {
	f := newFixture(t)

	value, err := f.ctrl.ToggleCheckable(context.Background(), "INBOX/Old")
	require.NoError(t, err)
	assert.True(t, value)
	assert.True(t, f.folder(t, "INBOX/Old").Checkable)

	calls := f.remote.callsFor(remote.ActionFolderCheckable)
	require.Len(t, calls, 1)
	assert.Equal(t, remote.Params{"folder": "INBOX/Old", "checkable": 1}, calls[0].params)
}

func TestSetKolabType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.ctrl.SetKolabType(ctx, "Projects", models.KolabType("bogus"))
	assert.ErrorIs(t, err, ErrInvalidKolabType)

	require.NoError(t, f.ctrl.SetKolabType(ctx, "Calendar", models.KolabTypeEvent))
	assert.Empty(t, f.remote.callsFor(remote.ActionFolderSetMetadata), "值不变时不发请求")

	require.NoError(t, f.ctrl.SetKolabType(ctx, "Projects", models.KolabTypeTask))
	calls := f.remote.callsFor(remote.ActionFolderSetMetadata)
	require.Len(t, calls, 1)
	assert.Equal(t, remote.Params{
		"folder": "Projects",
		"key":    models.KolabFolderTypeKey,
		"value":  "task",
	}, calls[0].params)
	assert.Equal(t, models.KolabTypeTask, f.folder(t, "Projects").KolabType)

	require.NoError(t, f.ctrl.SetKolabType(ctx, "Projects", models.KolabTypeNone))
	assert.Equal(t, "", f.remote.callsFor(remote.ActionFolderSetMetadata)[1].params["value"])
}

func TestSettingsOnlySentOnChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.SetHideUnsubscribed(ctx, false))
	assert.Empty(t, f.remote.callsFor(remote.ActionSettingsUpdate))

	require.NoError(t, f.ctrl.SetHideUnsubscribed(ctx, true))
	require.NoError(t, f.ctrl.SetHideUnsubscribed(ctx, true))
	require.NoError(t, f.ctrl.SetUnhideKolabFolders(ctx, true))

	calls := f.remote.callsFor(remote.ActionSettingsUpdate)
	require.Len(t, calls, 2)
	assert.Equal(t, remote.Params{"HideUnsubscribed": true}, calls[0].params)
	assert.Equal(t, remote.Params{"UnhideKolabFolders": true}, calls[1].params)

	settings, err := f.ctrl.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, Settings{HideUnsubscribed: true, UnhideKolabFolders: true}, settings)
}

func TestTreeHiddenFlags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	byName := func(tree *TreeView) map[string]*FolderView {
		out := map[string]*FolderView{}
		for _, v := range tree.Folders {
			out[v.FullName] = v
		}
		return out
	}

	tree, err := f.ctrl.Tree(ctx)
	require.NoError(t, err)
	views := byName(tree)
	assert.False(t, views["Projects"].Hidden)
	assert.True(t, views["Calendar"].Hidden, "Kolab 文件夹默认隐藏")

	require.NoError(t, f.ctrl.SetHideUnsubscribed(ctx, true))
	require.NoError(t, f.ctrl.SetUnhideKolabFolders(ctx, true))

	tree, err = f.ctrl.Tree(ctx)
	require.NoError(t, err)
	views = byName(tree)
	assert.True(t, views["Projects"].Hidden)
	assert.False(t, views["Calendar"].Hidden)
}

func TestTreeMarksArmedFolder(t *testing.T) {
	f := newFixture(t)

	f.ctrl.DeleteFolder(context.Background(), "Calendar")
	tree, err := f.ctrl.Tree(context.Background())
	require.NoError(t, err)

	for _, v := range tree.Folders {
		assert.Equal(t, v.FullName == "Calendar", v.Armed, v.FullName)
	}
	assert.Equal(t, ConfirmArmed, tree.Confirmation.State)
}

func TestTreeReturnsCopies(t *testing.T) {
	f := newFixture(t)

	tree, err := f.ctrl.Tree(context.Background())
	require.NoError(t, err)
	tree.Folders[0].TotalEmails = 0
	tree.Folders[0].SubFolders = nil

	inbox := f.folder(t, "INBOX")
	assert.Equal(t, 12, inbox.TotalEmails)
	assert.Len(t, inbox.SubFolders, 2)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Refresh(ctx))
	calls := f.remote.callsFor(remote.ActionFolders)
	require.Len(t, calls, 1)

	_, loading := f.ctrl.Busy()
	assert.True(t, loading.Active())

	calls[0].resolve(&remote.Response{
		Action: remote.ActionFolders,
		Result: []byte(`[{"full_name":"INBOX","delimiter":"/","selectable":true},{"full_name":"Work","delimiter":"/","selectable":true}]`),
	}, nil)

	tree, err := f.ctrl.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Total)
	assert.False(t, tree.Loading)
}

func TestRefreshFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Refresh(ctx))
	f.remote.callsFor(remote.ActionFolders)[0].resolve(nil, remote.NewError(remote.CodeConnectionError, "dial"))

	msg, _ := f.ctrl.ListError(ctx)
	assert.Equal(t, "Can't connect to server", msg)
	assert.True(t, f.exists("INBOX"), "失败时保留原来的树")

	require.NoError(t, f.ctrl.OnShow(ctx))
	require.NoError(t, f.ctrl.Refresh(ctx))
	f.remote.callsFor(remote.ActionFolders)[1].resolve(nil, remote.ErrAborted)

	msg, _ = f.ctrl.ListError(ctx)
	assert.Empty(t, msg, "被取消的列表请求不报错")
}

func TestDeleteDiscardsFolderListInFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ctrl.Refresh(ctx))
	listing := f.remote.callsFor(remote.ActionFolders)[0]

	_, err := f.confirmDelete(t, "Projects")
	require.NoError(t, err)
	assert.Equal(t, 1, f.remote.abortCount())
	f.remote.callsFor(remote.ActionFolderDelete)[0].resolve(nil, nil)

	result, err := json.Marshal(sampleFolders())
	require.NoError(t, err)
	listing.resolve(&remote.Response{Action: remote.ActionFolders, Result: result}, nil)

	assert.False(t, f.folder(t, "Projects").Selectable, "删除前发出的列表结果不覆盖本地树")

	for _, name := range []string{"Projects/2023", "Projects/2024"} {
		_, err := f.confirmDelete(t, name)
		require.NoError(t, err)
	}
	for _, call := range f.remote.callsFor(remote.ActionFolderDelete)[1:] {
		call.resolve(nil, nil)
	}
	assert.False(t, f.exists("Projects"), "已删除父节点的级联移除不受影响")

	require.NoError(t, f.ctrl.Refresh(ctx))
	f.remote.callsFor(remote.ActionFolders)[1].resolve(&remote.Response{Action: remote.ActionFolders, Result: result}, nil)
	assert.True(t, f.exists("Projects"), "之后的列表请求正常加载")
}

func TestLoadResetsDeleteState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := func() (seqs, deleted int) {
		require.NoError(t, f.ctrl.dispatcher.Do(ctx, func() {
			seqs, deleted = len(f.ctrl.deleteSeq), len(f.ctrl.deleted)
		}))
		return
	}

	_, err := f.confirmDelete(t, "INBOX/Old")
	require.NoError(t, err)
	_, err = f.confirmDelete(t, "Projects")
	require.NoError(t, err)
	f.remote.callsFor(remote.ActionFolderDelete)[1].resolve(nil, nil)

	seqs, deleted := pending()
	assert.Equal(t, 1, seqs)
	assert.Equal(t, 1, deleted)

	require.NoError(t, f.ctrl.Load(ctx, sampleFolders()))
	seqs, deleted = pending()
	assert.Zero(t, seqs, "重新加载后不保留旧的删除序号")
	assert.Zero(t, deleted)
}

func TestCancelledContextDoesNotMutate(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 20; i++ {
		_, err := f.ctrl.ToggleSubscription(ctx, "Projects")
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.False(t, f.folder(t, "Projects").IsSubscribed)
	assert.Empty(t, f.remote.callsFor(remote.ActionFolderSubscribe))

	for i := 0; i < 2; i++ {
		status, err := f.ctrl.DeleteFolder(ctx, "INBOX/Old")
		assert.Equal(t, DeleteRejected, status)
		assert.ErrorIs(t, err, context.Canceled)
	}
	_, ok, err := f.ctrl.Armed(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.remote.callsFor(remote.ActionFolderDelete))
}

func TestDialogs(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctrl.CreateFolder(context.Background()), ErrNoDialogs)

	publisher := &recordingPublisher{}
	g := newFixture(t, func(o *Options) {
		o.Dialogs = &EventDialogs{Publisher: publisher}
	})
	require.NoError(t, g.ctrl.CreateFolder(context.Background()))
	require.NoError(t, g.ctrl.SystemFolder(context.Background()))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, sse.EventDialogRequested, publisher.events[0].Type)
	assert.Equal(t, DialogCreateFolder, publisher.events[0].Data.(*sse.DialogEventData).Dialog)
	assert.Equal(t, DialogSystemFolder, publisher.events[1].Data.(*sse.DialogEventData).Dialog)
}

func TestKolabTypeOptions(t *testing.T) {
	f := newFixture(t)

	options := f.ctrl.KolabTypeOptions()
	require.Len(t, options, len(models.KolabTypes()))
	assert.Equal(t, KolabTypeOption{ID: models.KolabTypeNone, Name: ""}, options[0])
	assert.Equal(t, KolabTypeOption{ID: models.KolabTypeEvent, Name: "Calendar"}, options[1])
}

func TestDragDropPublishesMove(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Drag = nil
	})

	list := reorder.NewElement("list", false)
	a := reorder.NewElement("INBOX", true)
	b := reorder.NewElement("Projects", true)
	list.Append(a, b)
	a.Rect = reorder.Rect{Top: 0, Height: 20}
	b.Rect = reorder.Rect{Top: 20, Height: 20}

	require.True(t, f.ctrl.DragStart("INBOX", a))
	assert.True(t, f.ctrl.DragHover(list, b, 35))
	assert.Equal(t, []string{"Projects", "INBOX"}, list.ChildIDs())
	require.True(t, f.ctrl.Drop(list))
	f.ctrl.DragEnd()

	var moved *sse.FolderMovedEventData
	for _, e := range f.publisher.events {
		if e.Type == sse.EventFolderMoved {
			moved = e.Data.(*sse.FolderMovedEventData)
		}
	}
	require.NotNil(t, moved)
	assert.Equal(t, "INBOX", moved.Folder)
	assert.Equal(t, 0, moved.From)
	assert.Equal(t, 1, moved.To)
}

func TestClosedController(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Close()

	_, err := f.ctrl.DeleteFolder(context.Background(), "INBOX/Old")
	assert.ErrorIs(t, err, ErrStopped)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err = f.ctrl.Tree(ctx)
	assert.Error(t, err)
}
