package handler

import (
	"context"
	"errors"
	"fmt"

	"post-board/internal/logger"
	"post-board/eventbus"
	"post-board/events"
	"post-board/models"
	"post-board/repositories"
)

// Recorder 는 활동 기록 저장소다. *repositories.ActivityRepository 가 구현한다.
type Recorder interface {
	Insert(ctx context.Context, a *models.Activity) error
}

type EventHandlers struct {
	store Recorder
}

func NewEventHandlers(store Recorder) *EventHandlers {
	return &EventHandlers{store: store}
}

// Handle 은 post/user 토픽에서 받은 이벤트를 타입별로 활동 기록으로 변환해 저장한다.
// 알 수 없는 타입은 무시(커밋)하고, 디코딩할 수 없는 페이로드는 재시도 없이 DLQ 로 보낸다.
func (h *EventHandlers) Handle(ctx context.Context, evt eventbus.Event) error {
	// 이벤트 타입만 먼저 파싱 (BaseEvent.Type 는 top-level 에 있음)
	peek, err := eventbus.DecodeJSON[events.BaseEvent](evt)
	if err != nil {
		return eventbus.Permanent(err)
	}

	var a *models.Activity
	switch peek.Type {
	case events.PostCreated, events.PostUpdated, events.PostDeleted:
		v, err := eventbus.DecodeJSON[events.PostEvent](evt)
		if err != nil {
			return eventbus.Permanent(err)
		}
		a = postActivity(v)
	case events.UserRegistered:
		v, err := eventbus.DecodeJSON[events.UserRegisteredEvent](evt)
		if err != nil {
			return eventbus.Permanent(err)
		}
		a = userActivity(v)
	default:
		logger.DebugWithFields("ignoring unknown event type", logger.Fields{
			"event_id": evt.ID,
			"type":     string(peek.Type),
		})
		return nil
	}

	return h.record(ctx, a)
}

func (h *EventHandlers) record(ctx context.Context, a *models.Activity) error {
	err := h.store.Insert(ctx, a)
	switch {
	case err == nil:
		logger.InfoWithFields("activity recorded", logger.Fields{
			"event_id":   a.EventID,
			"type":       a.Type,
			"subject_id": a.SubjectID,
			"request_id": a.RequestID,
		})
		return nil
	case errors.Is(err, repositories.ErrDuplicateKey):
		// 같은 이벤트가 다시 전달된 경우
		logger.DebugWithFields("activity already recorded", logger.Fields{"event_id": a.EventID})
		return nil
	case models.IsValidationError(err):
		return eventbus.Permanent(err)
	default:
		return fmt.Errorf("record activity %s: %w", a.EventID, err)
	}
}

func postActivity(e events.PostEvent) *models.Activity {
	return &models.Activity{
		EventID:    e.ID,
		Type:       string(e.Type),
		SubjectID:  e.PostID,
		Summary:    e.Title,
		ActorID:    e.ActorID,
		RequestID:  e.RequestID,
		OccurredAt: e.Timestamp,
	}
}

func userActivity(e events.UserRegisteredEvent) *models.Activity {
	return &models.Activity{
		EventID:    e.ID,
		Type:       string(e.Type),
		SubjectID:  e.UserID,
		Summary:    e.Username,
		RequestID:  e.RequestID,
		OccurredAt: e.Timestamp,
	}
}
