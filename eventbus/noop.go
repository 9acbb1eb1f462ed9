package eventbus

import "context"

// NoopBus 는 Kafka 가 설정되지 않았을 때 사용하는 Publisher 다. 이벤트는 버려진다.
type NoopBus struct{}

func (NoopBus) Publish(context.Context, string, Event) error { return nil }

func (NoopBus) Close() {}
