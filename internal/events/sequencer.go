package events

import (
	"context"
	"fmt"
	"sync"
)

type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// MemorySequencer hands out per-partition sequence numbers starting at 1.
// Counters live only as long as the process, or until Forget drops them.
type MemorySequencer struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{last: make(map[string]int64)}
}

func (s *MemorySequencer) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[partitionKey]++
	return s.last[partitionKey], nil
}

// Forget drops the counter for a partition that will not publish again.
func (s *MemorySequencer) Forget(partitionKey string) {
	s.mu.Lock()
	delete(s.last, partitionKey)
	s.mu.Unlock()
}

// Len is the number of partitions with a live counter.
func (s *MemorySequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.last)
}
