package sse

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// EventPublisherImpl 事件发布器实现
type EventPublisherImpl struct {
	connectionManager ConnectionManager
	account           string
	stats             *ServiceStats
	mutex             sync.RWMutex
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(connectionManager ConnectionManager, account string) *EventPublisherImpl {
	return &EventPublisherImpl{
		connectionManager: connectionManager,
		account:           account,
		stats: &ServiceStats{
			EventsByType: make(map[EventType]int64),
			StartTime:    time.Now(),
		},
	}
}

// Publish 广播事件
func (p *EventPublisherImpl) Publish(ctx context.Context, event *Event) error {
	if event == nil {
		return fmt.Errorf("event is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Account == "" {
		event.Account = p.account
	}

	data, err := event.ToSSEFormat()
	if err != nil {
		p.recordFailure()
		return fmt.Errorf("failed to format event: %w", err)
	}

	if err := p.connectionManager.Broadcast(data); err != nil {
		p.recordFailure()
		log.Printf("[WARN] SSE broadcast of %s partially failed: %v", event.Type, err)
		return err
	}

	p.recordEvent(event)
	return nil
}

// GetStats 获取发布统计
func (p *EventPublisherImpl) GetStats() ServiceStats {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	stats := ServiceStats{
		TotalConnections: p.connectionManager.GetConnectionCount(),
		EventsPublished:  p.stats.EventsPublished,
		FailedEvents:     p.stats.FailedEvents,
		EventsByType:     make(map[EventType]int64, len(p.stats.EventsByType)),
		StartTime:        p.stats.StartTime,
	}
	for k, v := range p.stats.EventsByType {
		stats.EventsByType[k] = v
	}
	if p.stats.LastEventTime != nil {
		lastTime := *p.stats.LastEventTime
		stats.LastEventTime = &lastTime
	}
	return stats
}

func (p *EventPublisherImpl) recordEvent(event *Event) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.stats.EventsPublished++
	p.stats.EventsByType[event.Type]++
	now := time.Now()
	p.stats.LastEventTime = &now
}

func (p *EventPublisherImpl) recordFailure() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.stats.FailedEvents++
}

// NoopPublisher 丢弃所有事件
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, *Event) error { return nil }
