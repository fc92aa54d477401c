package sse

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// SSEConnection SSE连接实现
type SSEConnection struct {
	clientID     string
	writer       http.ResponseWriter
	flusher      http.Flusher
	connectedAt  time.Time
	lastActivity time.Time
	closed       bool
	mutex        sync.RWMutex
}

// NewSSEConnection 创建新的SSE连接
func NewSSEConnection(clientID string, w http.ResponseWriter) (*SSEConnection, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	now := time.Now()
	return &SSEConnection{
		clientID:     clientID,
		writer:       w,
		flusher:      flusher,
		connectedAt:  now,
		lastActivity: now,
	}, nil
}

// Send 发送数据到客户端
func (c *SSEConnection) Send(data []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.closed {
		return fmt.Errorf("connection is closed")
	}

	if _, err := c.writer.Write(data); err != nil {
		c.closed = true
		return fmt.Errorf("failed to write data: %w", err)
	}

	c.flusher.Flush()
	c.lastActivity = time.Now()
	return nil
}

// Close 关闭连接
func (c *SSEConnection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
	return nil
}

// IsActive 检查连接是否活跃
func (c *SSEConnection) IsActive() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return !c.closed
}

// GetClientID 获取客户端ID
func (c *SSEConnection) GetClientID() string {
	return c.clientID
}

// GetConnectedAt 获取连接时间
func (c *SSEConnection) GetConnectedAt() time.Time {
	return c.connectedAt
}

// GetLastActivity 获取最后活动时间
func (c *SSEConnection) GetLastActivity() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.lastActivity
}

// ConnectionManagerImpl 连接管理器实现
type ConnectionManagerImpl struct {
	connections       map[string]ClientConnection
	mutex             sync.RWMutex
	maxConnections    int
	connectionTimeout time.Duration
}

// NewConnectionManager 创建连接管理器
func NewConnectionManager(maxConnections int, connectionTimeout time.Duration) *ConnectionManagerImpl {
	return &ConnectionManagerImpl{
		connections:       make(map[string]ClientConnection),
		maxConnections:    maxConnections,
		connectionTimeout: connectionTimeout,
	}
}

// AddConnection 添加客户端连接
func (cm *ConnectionManagerImpl) AddConnection(clientID string, conn ClientConnection) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	// 如果已存在相同clientID的连接，先关闭旧连接
	if existing, exists := cm.connections[clientID]; exists {
		existing.Close()
		delete(cm.connections, clientID)
	}

	if cm.maxConnections > 0 && len(cm.connections) >= cm.maxConnections {
		cm.removeOldestConnection()
	}

	cm.connections[clientID] = conn
	return nil
}

// RemoveConnection 移除客户端连接
func (cm *ConnectionManagerImpl) RemoveConnection(clientID string) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if conn, exists := cm.connections[clientID]; exists {
		conn.Close()
		delete(cm.connections, clientID)
	}
	return nil
}

// GetConnections 获取所有活跃连接
func (cm *ConnectionManagerImpl) GetConnections() []ClientConnection {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var connections []ClientConnection
	for _, conn := range cm.connections {
		if conn.IsActive() {
			connections = append(connections, conn)
		}
	}
	return connections
}

// GetConnectionCount 获取活跃连接数
func (cm *ConnectionManagerImpl) GetConnectionCount() int {
	return len(cm.GetConnections())
}

// Broadcast 发送消息给所有连接，发送失败的连接被移除
func (cm *ConnectionManagerImpl) Broadcast(data []byte) error {
	var failed int
	for _, conn := range cm.GetConnections() {
		if err := conn.Send(data); err != nil {
			failed++
			cm.RemoveConnection(conn.GetClientID())
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to send to %d connections", failed)
	}
	return nil
}

// CleanupInactiveConnections 清理非活跃连接，返回清理数量
func (cm *ConnectionManagerImpl) CleanupInactiveConnections() int {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	now := time.Now()
	removed := 0
	for clientID, conn := range cm.connections {
		if !conn.IsActive() || (cm.connectionTimeout > 0 && now.Sub(conn.GetLastActivity()) > cm.connectionTimeout) {
			conn.Close()
			delete(cm.connections, clientID)
			removed++
		}
	}
	return removed
}

// removeOldestConnection 移除最旧的连接（调用时需要持有锁）
func (cm *ConnectionManagerImpl) removeOldestConnection() {
	var oldestClientID string
	var oldestTime time.Time

	for clientID, conn := range cm.connections {
		connTime := conn.GetConnectedAt()
		if oldestClientID == "" || connTime.Before(oldestTime) {
			oldestClientID = clientID
			oldestTime = connTime
		}
	}

	if conn, exists := cm.connections[oldestClientID]; exists {
		conn.Close()
		delete(cm.connections, oldestClientID)
	}
}
