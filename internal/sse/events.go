package sse

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType 事件类型
type EventType string

const (
	// 文件夹相关事件
	EventFoldersLoaded      EventType = "folders_loaded"
	EventFolderUpdated      EventType = "folder_updated"
	EventFolderDeleted      EventType = "folder_deleted"
	EventFolderDeleteFailed EventType = "folder_delete_failed"
	EventFolderMoved        EventType = "folder_moved"
	EventDialogRequested    EventType = "dialog_requested"
	EventSettingChanged     EventType = "setting_changed"

	// 系统事件
	EventHeartbeat    EventType = "heartbeat"
	EventNotification EventType = "notification"
)

// Event SSE事件结构
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Account   string      `json:"account,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Retry     *int        `json:"retry,omitempty"` // 重试间隔（毫秒）
}

// FolderEventData 文件夹事件数据
type FolderEventData struct {
	Folder       string `json:"folder"`
	ParentName   string `json:"parent_name,omitempty"`
	Removed      bool   `json:"removed,omitempty"`
	Selectable   *bool  `json:"selectable,omitempty"`
	IsSubscribed *bool  `json:"is_subscribed,omitempty"`
	Checkable    *bool  `json:"checkable,omitempty"`
	KolabType    string `json:"kolab_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// FoldersLoadedEventData 文件夹列表加载事件数据
type FoldersLoadedEventData struct {
	Total int      `json:"total"`
	Roots []string `json:"roots"`
}

// FolderMovedEventData 拖动放下事件数据
type FolderMovedEventData struct {
	Folder string   `json:"folder"`
	From   int      `json:"from"`
	To     int      `json:"to"`
	Order  []string `json:"order"`
}

// DialogEventData 请求前端打开对话框
type DialogEventData struct {
	Dialog string `json:"dialog"`
}

// SettingEventData 视图设置变更
type SettingEventData struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// NotificationEventData 通知事件数据
type NotificationEventData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"` // info, success, warning, error
}

// HeartbeatEventData 心跳事件数据
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// ToSSEFormat 将事件转换为SSE格式
func (e *Event) ToSSEFormat() ([]byte, error) {
	var sseMessage []byte

	if e.ID != "" {
		sseMessage = append(sseMessage, []byte("id: "+e.ID+"\n")...)
	}

	sseMessage = append(sseMessage, []byte("event: "+string(e.Type)+"\n")...)

	if e.Retry != nil {
		sseMessage = append(sseMessage, []byte(fmt.Sprintf("retry: %d\n", *e.Retry))...)
	}

	dataBytes, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(dataBytes), "\n") {
		sseMessage = append(sseMessage, []byte("data: "+line+"\n")...)
	}

	sseMessage = append(sseMessage, []byte("\n")...)

	return sseMessage, nil
}

// NewEvent 创建新事件
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewFolderEvent 创建文件夹事件
func NewFolderEvent(eventType EventType, data *FolderEventData) *Event {
	return NewEvent(eventType, data)
}

// NewNotificationEvent 创建通知事件
func NewNotificationEvent(title, message, notificationType string) *Event {
	return NewEvent(EventNotification, &NotificationEventData{
		Title:   title,
		Message: message,
		Type:    notificationType,
	})
}

// NewHeartbeatEvent 创建心跳事件
func NewHeartbeatEvent() *Event {
	return NewEvent(EventHeartbeat, &HeartbeatEventData{ServerTime: time.Now()})
}
