package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"post-board/internal/logger"
)

// DLQBackoff 는 DLQ 발행이 실패해 같은 메시지로 되감은 뒤 다시 읽기 전 대기 시간이다.
var DLQBackoff = 5 * time.Second

// HeaderDLQError 는 디코딩할 수 없어 원본 그대로 DLQ 로 보낸 메시지에 붙는 헤더다.
const HeaderDLQError = "dlq_error"

// offsetCommitter 는 dispatcher 가 사용하는 *kafka.Consumer 메서드다.
type offsetCommitter interface {
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	Seek(partition kafka.TopicPartition, ignoredTimeoutMs int) error
}

type produceFunc func(ctx context.Context, topic string, key, value []byte, headers []kafka.Header) error

// dispatcher 는 메시지 하나의 처리 결과에 따라 커밋, DLQ, 되감기를 결정한다.
type dispatcher struct {
	consumer   offsetCommitter
	produce    produceFunc
	handler    Handler
	delays     []time.Duration
	dlqBackoff time.Duration
}

// process 는 다음 규칙을 따른다.
//   - 처리 성공 또는 DLQ 발행 성공: 커밋
//   - 봉투 디코딩 실패: 원본 바이트를 DLQ 로 보낸 뒤 커밋
//   - DLQ 발행 실패: 커밋하지 않고 해당 오프셋으로 Seek 해 다시 읽는다
//   - 종료(ctx 취소) 중 실패: 커밋하지 않고 ctx.Err() 반환
//
// 반환된 오류는 컨슈머 루프를 끝낸다.
func (d *dispatcher) process(ctx context.Context, msg *kafka.Message) error {
	topic := ""
	if msg.TopicPartition.Topic != nil {
		topic = *msg.TopicPartition.Topic
	}
	dlq := NewTopic(topic).DLQ()

	var evt Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		logger.ErrorWithFields("이벤트 디코딩 실패, 원본을 DLQ 로 전송", logger.Fields{
			"topic": topic,
			"dlq":   dlq,
			"error": err.Error(),
		})
		headers := append(append([]kafka.Header{}, msg.Headers...), kafka.Header{Key: HeaderDLQError, Value: []byte(err.Error())})
		if perr := d.produce(ctx, dlq, msg.Key, msg.Value, headers); perr != nil {
			return d.rewind(ctx, msg, dlq, perr)
		}
		d.commit(msg)
		return nil
	}
	evt.Key = string(msg.Key)

	err := handleWithRetry(ctx, &evt, d.handler, d.delays)
	if err == nil {
		d.commit(msg)
		return nil
	}
	if ctx.Err() != nil {
		// 종료 중에는 커밋하지 않는다. 재시작 후 다시 전달된다.
		return ctx.Err()
	}

	logger.ErrorWithFields("이벤트 처리 실패, DLQ 로 전송", logger.Fields{
		"event_id": evt.ID,
		"topic":    topic,
		"dlq":      dlq,
		"attempts": evt.Attempts,
		"error":    err.Error(),
	})
	data, merr := json.Marshal(evt)
	if merr != nil {
		return d.rewind(ctx, msg, dlq, merr)
	}
	if perr := d.produce(ctx, dlq, evt.partitionKey(), data, nil); perr != nil {
		return d.rewind(ctx, msg, dlq, perr)
	}
	d.commit(msg)
	return nil
}

// rewind 는 소비 위치를 msg 로 되돌린다. 이후 커밋이 msg 를 건너뛰지 않게 한다.
func (d *dispatcher) rewind(ctx context.Context, msg *kafka.Message, dlq string, cause error) error {
	logger.ErrorWithFields("DLQ 발행 실패, 오프셋을 되감고 다시 처리", logger.Fields{
		"topic_partition": msg.TopicPartition.String(),
		"dlq":             dlq,
		"error":           cause.Error(),
	})
	if err := d.consumer.Seek(msg.TopicPartition, 0); err != nil {
		return fmt.Errorf("오프셋 되감기 실패 %s: %w", msg.TopicPartition.String(), err)
	}

	timer := time.NewTimer(d.dlqBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (d *dispatcher) commit(msg *kafka.Message) {
	if _, err := d.consumer.CommitMessage(msg); err != nil {
		logger.WarnWithFields("오프셋 커밋 오류", logger.Fields{"error": err.Error()})
	}
}
