package eventbus

import (
	"context"
	"errors"
	"time"
)

// RetryDelays 는 핸들러 실패 시 같은 메시지를 다시 처리하기 전 대기 시간이다.
// 모두 소진하면 DLQ 로 보낸다.
var RetryDelays = []time.Duration{
	1 * time.Second,
	5 * time.Second,
	15 * time.Second,
}

// ErrPermanent 로 감싼 오류는 재시도 없이 바로 DLQ 로 보낸다.
var ErrPermanent = errors.New("permanent failure")

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() []error {
	return []error{ErrPermanent, e.err}
}

// Permanent 는 재시도해도 성공할 수 없는 오류(페이로드 형식 오류 등)를 표시한다.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// handleWithRetry 는 handler 를 최대 len(delays)+1 번 실행한다.
// 성공하면 nil, 모두 실패하면 마지막 오류를 반환하고 evt 에 시도 횟수와 오류를 기록한다.
func handleWithRetry(ctx context.Context, evt *Event, handler Handler, delays []time.Duration) error {
	var err error
	for attempt := 0; ; attempt++ {
		evt.Attempts++
		err = handler(ctx, *evt)
		if err == nil {
			return nil
		}
		evt.LastError = err.Error()
		if errors.Is(err, ErrPermanent) || attempt >= len(delays) {
			return err
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
