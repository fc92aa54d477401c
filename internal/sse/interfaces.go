package sse

import (
	"context"
	"time"
)

// EventPublisher 事件发布器接口
type EventPublisher interface {
	// Publish 广播事件给所有连接
	Publish(ctx context.Context, event *Event) error
}

// ConnectionManager 连接管理器接口
type ConnectionManager interface {
	AddConnection(clientID string, conn ClientConnection) error
	RemoveConnection(clientID string) error
	GetConnections() []ClientConnection
	GetConnectionCount() int
	Broadcast(data []byte) error
	CleanupInactiveConnections() int
}

// ClientConnection 客户端连接接口
type ClientConnection interface {
	Send(data []byte) error
	Close() error
	IsActive() bool
	GetClientID() string
	GetConnectedAt() time.Time
	GetLastActivity() time.Time
}

// ServiceStats 服务统计信息
type ServiceStats struct {
	TotalConnections int                 `json:"total_connections"`
	EventsPublished  int64               `json:"events_published"`
	FailedEvents     int64               `json:"failed_events"`
	EventsByType     map[EventType]int64 `json:"events_by_type"`
	StartTime        time.Time           `json:"start_time"`
	LastEventTime    *time.Time          `json:"last_event_time,omitempty"`
}
