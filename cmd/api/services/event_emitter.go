package services

import (
	"context"
	"errors"

	"post-board/cmd/api/metrics"
	"post-board/cmd/api/trace"
	"post-board/internal/logger"
	"post-board/eventbus"
	"post-board/events"
)

// EventEmitter 는 도메인 이벤트를 best-effort 로 발행한다.
// 발행 실패는 요청 결과에 영향을 주지 않고 로그와 지표로만 남는다.
// nil EventEmitter 는 아무것도 하지 않는다.
type EventEmitter struct {
	bus     eventbus.Publisher
	topics  eventbus.Topics
	metrics *metrics.Metrics
}

func NewEventEmitter(bus eventbus.Publisher, topics eventbus.Topics, m *metrics.Metrics) *EventEmitter {
	return &EventEmitter{bus: bus, topics: topics, metrics: m}
}

func (e *EventEmitter) postEvent(ctx context.Context, t events.EventType, postID, title string, version int) {
	if e == nil {
		return
	}
	payload := events.PostEvent{
		BaseEvent:   events.NewBaseEvent(t, trace.RequestIDFromContext(ctx)),
		PostID:      postID,
		Title:       title,
		PostVersion: version,
		ActorID:     trace.ActorFromContext(ctx),
	}
	e.publish(ctx, e.topics.PostEvents, postID, payload.BaseEvent, payload)
}

func (e *EventEmitter) userRegistered(ctx context.Context, userID, username string) {
	if e == nil {
		return
	}
	payload := events.UserRegisteredEvent{
		BaseEvent: events.NewBaseEvent(events.UserRegistered, trace.RequestIDFromContext(ctx)),
		UserID:    userID,
		Username:  username,
	}
	e.publish(ctx, e.topics.UserEvents, userID, payload.BaseEvent, payload)
}

func (e *EventEmitter) publish(ctx context.Context, topic eventbus.Topic, key string, base events.BaseEvent, payload any) {
	result := "queued"
	defer func() {
		if e.metrics != nil {
			e.metrics.EventsPublished.WithLabelValues(string(base.Type), result).Inc()
		}
	}()

	evt, err := eventbus.NewJSONEvent(base.ID, key, payload)
	if err != nil {
		result = "failed"
		logger.ErrorWithFields("이벤트 생성 실패", logger.Fields{"type": base.Type, "error": err.Error()})
		return
	}

	if err := e.bus.Publish(ctx, topic.Base(), evt); err != nil {
		result = "failed"
		if errors.Is(err, eventbus.ErrQueueFull) {
			result = "dropped"
		}
		logger.WarnWithFields("이벤트 발행 실패", logger.Fields{
			"type":       base.Type,
			"topic":      topic.Base(),
			"event_id":   base.ID,
			"request_id": base.RequestID,
			"error":      err.Error(),
		})
	}
}
