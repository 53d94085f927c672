package question

import (
	"context"
	"sync"
)

type memoryBank struct {
	mu sync.RWMutex
	m  map[string]Question
}

func NewInMemoryBank() Bank {
	return &memoryBank{m: map[string]Question{}}
}

func (b *memoryBank) Put(_ context.Context, q Question) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[q.ID] = q
	return nil
}

func (b *memoryBank) Get(_ context.Context, id string) (Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	q, ok := b.m[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (b *memoryBank) BySubject(_ context.Context, examType, subject string) ([]Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Question
	for _, q := range b.m {
		if q.ExamType == examType && q.Subject == subject {
			out = append(out, q)
		}
	}
	return out, nil
}
