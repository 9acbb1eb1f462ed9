// Package ratelimit 는 클라이언트별 고정 윈도우(lazy reset) 요청 제한을 구현한다.
//
// 윈도우가 지난 뒤 처음 들어온 요청에서만 카운터를 초기화하며, 슬라이딩 로그 방식이 아니다.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Entry 는 클라이언트 키 하나의 카운터 상태다.
type Entry struct {
	Count       int
	WindowStart time.Time
}

// Decision 은 Admit 결과다. RetryAfter 는 거부된 경우 현재 윈도우가 끝나기까지 남은 시간이다.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Store 는 카운터 저장소다. 프로세스당 한 번 만들어 Limiter 에 주입한다.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	// Sweep 은 주기적으로 호출되는 정리 단계다. now 기준으로 더 이상 필요 없는 엔트리 수를 반환한다.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// AtomicStore 는 check-then-increment 를 저장소 측에서 원자적으로 수행할 수 있는 Store 다.
// (예: Redis Lua 스크립트) 구현되어 있으면 Limiter 는 자체 락 대신 이를 사용한다.
type AtomicStore interface {
	Store
	Admit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Decision, error)
}

// Limiter applies one limit/window pair to a Store.
// scope 는 같은 Store 를 공유하는 limiter 끼리 키가 겹치지 않도록 키 앞에 붙는다.
type Limiter struct {
	store  Store
	scope  string
	limit  int
	window time.Duration
	now    func() time.Time

	mu sync.Mutex
}

func NewLimiter(store Store, scope string, limit int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		scope:  scope,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *Limiter) Scope() string { return l.scope }

// Admit 는 key 에 대한 요청 하나를 허용할지 결정한다.
//  1. 엔트리가 없으면 {count:0, windowStart:now} 로 생성
//  2. now-windowStart > window 이면 초기화
//  3. count >= limit 이면 증가 없이 거부
//  4. 그 외에는 증가 후 허용
func (l *Limiter) Admit(ctx context.Context, clientKey string) (Decision, error) {
	now := l.now()
	key := l.scope + ":" + clientKey

	if as, ok := l.store.(AtomicStore); ok {
		return as.Admit(ctx, key, l.limit, l.window, now)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		e = Entry{Count: 0, WindowStart: now}
	}
	if now.Sub(e.WindowStart) > l.window {
		e = Entry{Count: 0, WindowStart: now}
	}

	if e.Count >= l.limit {
		return Decision{Allowed: false, RetryAfter: retryAfter(e.WindowStart, l.window, now)}, nil
	}

	e.Count++
	if err := l.store.Set(ctx, key, e); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true}, nil
}

func retryAfter(windowStart time.Time, window time.Duration, now time.Time) time.Duration {
	d := windowStart.Add(window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
