package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Topic 은 토픽의 기본 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ 는 재시도를 모두 소진한 이벤트가 옮겨지는 토픽 이름이다.
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// Event 는 Kafka 메시지의 페이로드로 사용되는 구조체다.
// Key 가 비어 있으면 ID 를 파티션 키로 사용한다.
type Event struct {
	ID        string          `json:"id"`
	Key       string          `json:"-"`
	Payload   json.RawMessage `json:"payload"`
	Attempts  int             `json:"attempts,omitempty"`
	LastError string          `json:"last_error,omitempty"`
}

// NewJSONEvent 는 payload 를 JSON 으로 인코딩해 Event 를 구성한다.
// id 가 빈 문자열이면 UUID 를 생성한다.
func NewJSONEvent(id, key string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("payload marshal 실패: %w", err)
	}
	return Event{ID: id, Key: key, Payload: b}, nil
}

func (e Event) partitionKey() []byte {
	if e.Key != "" {
		return []byte(e.Key)
	}
	return []byte(e.ID)
}

// Publisher 는 이벤트 발행의 추상화다.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// Handler 는 구독한 이벤트 하나를 처리한다.
type Handler func(ctx context.Context, event Event) error

// Subscriber 는 consumer group 으로 토픽들을 구독한다. ctx 가 취소될 때까지 블록된다.
type Subscriber interface {
	Subscribe(ctx context.Context, groupID string, topics []Topic, handler Handler) error
}

// DecodeJSON 은 Event.Payload 를 제네릭 타입으로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("payload unmarshal 실패: %w", err)
	}
	return out, nil
}

// ErrQueueFull 은 비동기 발행 큐가 가득 차 이벤트를 버렸을 때 반환된다.
var ErrQueueFull = errors.New("이벤트 발행 큐가 가득 참")

// ErrClosed 는 Close 이후 Publish 를 호출했을 때 반환된다.
var ErrClosed = errors.New("이벤트 버스가 종료됨")
