package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore 는 프로세스 로컬 카운터 저장소다.
// maxEntries 를 넘으면 가장 오래 사용되지 않은 키부터 버리고(LRU),
// 마지막 Set 이후 ttl 이 지난 키는 백그라운드에서 만료된다.
//
// ttl 은 limiter 윈도우 이상이어야 한다. 마지막 Set 은 windowStart 이후이므로
// 만료 시점은 항상 윈도우가 끝난 뒤이고, 만료는 lazy reset 과 같은 결과가 된다.
type MemoryStore struct {
	cache   *expirable.LRU[string, Entry]
	evicted atomic.Int64
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries < 0 {
		maxEntries = 0
	}
	s := &MemoryStore{}
	s.cache = expirable.NewLRU[string, Entry](maxEntries, func(string, Entry) {
		s.evicted.Add(1)
	}, ttl)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := s.cache.Get(key)
	return e, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e Entry) error {
	s.cache.Add(key, e)
	return nil
}

// Sweep 은 직전 Sweep 이후 만료 또는 LRU 로 제거된 엔트리 수를 반환한다.
// 실제 정리는 cache 가 직접 수행한다.
func (s *MemoryStore) Sweep(context.Context, time.Time) (int, error) {
	return int(s.evicted.Swap(0)), nil
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
