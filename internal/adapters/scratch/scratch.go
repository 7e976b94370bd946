package scratch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"flash-fileserver/internal/domain"
	"flash-fileserver/internal/metrics"
)

// Shared один буфер на весь процесс, передачи идут по очереди.
// Семафор веса 1 вместо мьютекса: ожидание прерывается отменой контекста запроса.
type Shared struct {
	buf  []byte
	lock *semaphore.Weighted
}

func NewShared(size int) *Shared {
	return &Shared{
		buf:  make([]byte, size),
		lock: semaphore.NewWeighted(1),
	}
}

func (s *Shared) Acquire(ctx context.Context) ([]byte, func(), error) {
	start := time.Now()
	if err := s.lock.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("waiting for shared buffer: %w: %w", domain.ErrBufferUnavailable, err)
	}
	metrics.RecordBufferWait(domain.BufferPolicySerialize, time.Since(start))

	var once sync.Once
	return s.buf, func() { once.Do(func() { s.lock.Release(1) }) }, nil
}

func (s *Shared) Size() int {
	return len(s.buf)
}

// PerRequest у каждой передачи свой буфер, не больше maxConcurrent одновременно.
type PerRequest struct {
	size  int
	slots *semaphore.Weighted
	pool  sync.Pool
}

func NewPerRequest(size, maxConcurrent int) *PerRequest {
	p := &PerRequest{
		size:  size,
		slots: semaphore.NewWeighted(int64(maxConcurrent)),
	}
	p.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

func (p *PerRequest) Acquire(ctx context.Context) ([]byte, func(), error) {
	start := time.Now()
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return nil, nil, fmt.Errorf("waiting for transfer slot: %w: %w", domain.ErrBufferUnavailable, err)
	}
	metrics.RecordBufferWait(domain.BufferPolicyPerRequest, time.Since(start))

	bp := p.pool.Get().(*[]byte)
	var once sync.Once
	release := func() {
		once.Do(func() {
			p.pool.Put(bp)
			p.slots.Release(1)
		})
	}
	return *bp, release, nil
}

func (p *PerRequest) Size() int {
	return p.size
}

// New выбирает политику по конфигу.
func New(policy string, size, maxConcurrent int) (domain.ScratchBuffers, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid scratch buffer size %d", size)
	}
	switch policy {
	case domain.BufferPolicySerialize:
		return NewShared(size), nil
	case domain.BufferPolicyPerRequest:
		if maxConcurrent <= 0 {
			return nil, fmt.Errorf("invalid max concurrent transfers %d", maxConcurrent)
		}
		return NewPerRequest(size, maxConcurrent), nil
	default:
		return nil, fmt.Errorf("unknown buffer policy %q", policy)
	}
}
