package sse

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SSEConfig SSE配置
type SSEConfig struct {
	MaxConnections    int           `json:"max_connections"`
	ConnectionTimeout time.Duration `json:"connection_timeout"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
	EnableHeartbeat   bool          `json:"enable_heartbeat"`
}

// DefaultSSEConfig 默认SSE配置
func DefaultSSEConfig() *SSEConfig {
	return &SSEConfig{
		MaxConnections:    50,
		ConnectionTimeout: 30 * time.Minute,
		HeartbeatInterval: 30 * time.Second,
		CleanupInterval:   5 * time.Minute,
		EnableHeartbeat:   true,
	}
}

// Service SSE服务
type Service struct {
	connectionManager *ConnectionManagerImpl
	publisher         *EventPublisherImpl
	config            *SSEConfig
	stopChan          chan struct{}
	started           bool
	mutex             sync.Mutex
}

// NewService 创建SSE服务
func NewService(account string, config *SSEConfig) *Service {
	if config == nil {
		config = DefaultSSEConfig()
	}

	connectionManager := NewConnectionManager(config.MaxConnections, config.ConnectionTimeout)

	return &Service{
		connectionManager: connectionManager,
		publisher:         NewEventPublisher(connectionManager, account),
		config:            config,
		stopChan:          make(chan struct{}),
	}
}

// Start 启动心跳和清理例程
func (s *Service) Start(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started {
		return nil
	}
	s.started = true

	if s.config.EnableHeartbeat && s.config.HeartbeatInterval > 0 {
		go s.every(ctx, s.config.HeartbeatInterval, s.sendHeartbeat)
	}
	if s.config.CleanupInterval > 0 {
		go s.every(ctx, s.config.CleanupInterval, s.cleanup)
	}

	log.Println("[INFO] SSE service started")
	return nil
}

// Stop 停止服务并关闭所有连接
func (s *Service) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	select {
	case <-s.stopChan:
		return nil
	default:
	}
	close(s.stopChan)

	for _, conn := range s.connectionManager.GetConnections() {
		s.connectionManager.RemoveConnection(conn.GetClientID())
	}

	log.Println("[INFO] SSE service stopped")
	return nil
}

// HandleConnection 注册连接并阻塞到客户端断开或服务停止
func (s *Service) HandleConnection(w http.ResponseWriter, r *http.Request, clientID string) error {
	if clientID == "" {
		clientID = uuid.New().String()
	}

	conn, err := NewSSEConnection(clientID, w)
	if err != nil {
		return fmt.Errorf("failed to create SSE connection: %w", err)
	}

	if err := s.connectionManager.AddConnection(clientID, conn); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}
	defer s.connectionManager.RemoveConnection(clientID)

	welcome := NewNotificationEvent("connected", "folder event stream established", "success")
	if data, err := welcome.ToSSEFormat(); err == nil {
		conn.Send(data)
	}

	log.Printf("[INFO] SSE connection established, client %s", clientID)

	select {
	case <-r.Context().Done():
	case <-s.stopChan:
	}

	log.Printf("[INFO] SSE connection closed, client %s", clientID)
	return nil
}

// Publisher 返回事件发布器
func (s *Service) Publisher() *EventPublisherImpl {
	return s.publisher
}

// GetStats 获取服务统计信息
func (s *Service) GetStats() ServiceStats {
	return s.publisher.GetStats()
}

func (s *Service) every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		}
	}
}

// sendHeartbeat 发送心跳
func (s *Service) sendHeartbeat() {
	if s.connectionManager.GetConnectionCount() == 0 {
		return
	}
	data, err := NewHeartbeatEvent().ToSSEFormat()
	if err != nil {
		return
	}
	if err := s.connectionManager.Broadcast(data); err != nil {
		log.Printf("[WARN] Failed to send heartbeat: %v", err)
	}
}

func (s *Service) cleanup() {
	if removed := s.connectionManager.CleanupInactiveConnections(); removed > 0 {
		log.Printf("[INFO] Cleaned up %d inactive SSE connections", removed)
	}
}
