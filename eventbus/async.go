package eventbus

import (
	"context"
	"sync"
	"time"

	"post-board/internal/logger"
)

type queuedEvent struct {
	topic string
	event Event
}

// AsyncPublisher 는 요청 경로를 막지 않도록 이벤트를 큐에 넣고
// 백그라운드 워커 하나가 inner Publisher 로 순서대로 발행한다.
// 실패는 로그로만 남긴다.
type AsyncPublisher struct {
	inner   Publisher
	timeout time.Duration
	queue   chan queuedEvent

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncPublisher(inner Publisher, bufferSize int, timeout time.Duration) *AsyncPublisher {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	a := &AsyncPublisher{
		inner:   inner,
		timeout: timeout,
		queue:   make(chan queuedEvent, bufferSize),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AsyncPublisher) run() {
	defer close(a.done)
	for q := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.inner.Publish(ctx, q.topic, q.event); err != nil {
			logger.ErrorWithFields("이벤트 발행 실패", logger.Fields{
				"topic":    q.topic,
				"event_id": q.event.ID,
				"error":    err.Error(),
			})
		}
		cancel()
	}
}

// Publish 는 큐에 넣기만 하고 즉시 반환한다. ctx 는 사용하지 않는다.
// 큐가 가득 차면 ErrQueueFull, Close 이후에는 ErrClosed.
func (a *AsyncPublisher) Publish(_ context.Context, topic string, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	select {
	case a.queue <- queuedEvent{topic: topic, event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close 는 남은 이벤트를 모두 발행한 뒤 inner 를 닫는다.
func (a *AsyncPublisher) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	a.inner.Close()
}
