package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	// 게시글 관련 이벤트 (<prefix>.post.events)
	PostCreated EventType = "post.created"
	PostUpdated EventType = "post.updated"
	PostDeleted EventType = "post.deleted"

	// 사용자 관련 이벤트 (<prefix>.user.events)
	UserRegistered EventType = "user.registered"
)

const (
	SourceAPI     = "api"
	SchemaVersion = "1"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	RequestID string    `json:"request_id,omitempty"`
}

// NewBaseEvent 는 새 ID 와 현재 시각으로 BaseEvent 를 만든다.
func NewBaseEvent(t EventType, requestID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Source:    SourceAPI,
		Version:   SchemaVersion,
		RequestID: requestID,
	}
}

func (e BaseEvent) GetType() EventType {
	return e.Type
}

// PostEvent 는 post.created / post.updated / post.deleted 페이로드다.
type PostEvent struct {
	BaseEvent
	PostID      string `json:"post_id"`
	Title       string `json:"title"`
	PostVersion int    `json:"post_version"`
	ActorID     string `json:"actor_id,omitempty"`
}

// UserRegisteredEvent 는 가입 완료 이벤트다. 비밀번호 관련 값은 담지 않는다.
type UserRegisteredEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
