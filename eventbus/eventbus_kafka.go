package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"post-board/internal/logger"
)

// KafkaEventBus 는 confluent-kafka-go 라이브러리를 사용한 Publisher 구현체다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus 는 Kafka Producer 를 초기화한다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5, // Producer 는 일시적인 오류 발생 시 최대 5회 재시도한다.
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// Producer 이벤트를 처리하는 고루틴 (전달 보고서 등)
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					logger.ErrorWithFields("메시지 전달 실패", logger.Fields{
						"topic_partition": ev.TopicPartition.String(),
						"error":           ev.TopicPartition.Error.Error(),
					})
				}
			case kafka.Error:
				logger.ErrorWithFields("Kafka 오류", logger.Fields{"error": ev.Error()})
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close 는 Producer 를 안전하게 종료한다.
func (k *KafkaEventBus) Close() {
	if k.Producer != nil {
		// 5초 동안 남은 메시지를 모두 플러시한다.
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			logger.Log.Warnf("플러시 후에도 %d개의 메시지가 남아 있습니다.", remaining)
		}
		k.Producer.Close()
		logger.Log.Info("Kafka Producer 종료.")
	}
}

// Publish 는 지정된 토픽에 이벤트를 발행하고 전달 보고를 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}
	return k.produce(ctx, topic, event.partitionKey(), data, nil)
}

// produce 는 이미 인코딩된 메시지를 발행하고 전달 보고를 기다린다.
func (k *KafkaEventBus) produce(ctx context.Context, topic string, key, value []byte, headers []kafka.Header) error {
	deliveryChan := make(chan kafka.Event, 1)

	err := k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
		Key:            key,
		Headers:        headers,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("메시지 발행 실패: %w", err)
	}

	// 전달 성공/실패 대기
	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("예상하지 못한 전달 이벤트: %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("메시지 전달 실패: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// Subscribe 는 groupID 컨슈머 그룹으로 topics 를 구독하고 ctx 가 취소될 때까지 메시지를 처리한다.
// 오프셋은 수동 커밋한다. 메시지별 처리 규칙은 dispatcher.process 참고.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topics []Topic, handler Handler) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false, // 재시도 로직을 위해 수동 커밋 사용
		"partition.assignment.strategy": "range",
	})
	if err != nil {
		return fmt.Errorf("kafka Consumer 생성 실패: %w", err)
	}
	defer c.Close()

	names := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, t.Base())
	}
	if err := c.SubscribeTopics(names, nil); err != nil {
		return fmt.Errorf("토픽 구독 실패 %v: %w", names, err)
	}

	logger.InfoWithFields("컨슈머 시작됨", logger.Fields{
		"group_id": groupID,
		"topics":   strings.Join(names, ", "),
	})

	d := &dispatcher{
		consumer:   c,
		produce:    k.produce,
		handler:    handler,
		delays:     RetryDelays,
		dlqBackoff: DLQBackoff,
	}

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("컨슈머 종료 중.")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) {
				if kerr.Code() == kafka.ErrTimedOut {
					continue // 타임아웃은 정상적인 상황이다.
				}
				if kerr.IsFatal() {
					return fmt.Errorf("컨슈머 치명적 오류: %w", err)
				}
			}
			logger.WarnWithFields("ReadMessage 오류", logger.Fields{"error": err.Error()})
			continue
		}

		if err := d.process(ctx, msg); err != nil {
			return err
		}
	}
}

var (
	_ Publisher  = (*KafkaEventBus)(nil)
	_ Subscriber = (*KafkaEventBus)(nil)
)
