package cache

import (
	"context"
	"sync"
	"time"

	"stock-predictor/internal/interfaces"
	"stock-predictor/internal/types"
)

// Memory stores assessments for the life of the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

type memoryEntry struct {
	sa        types.SentimentAssessment
	timestamp time.Time
}

var _ interfaces.SentimentCache = (*Memory)(nil)

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{data: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (types.SentimentAssessment, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return types.SentimentAssessment{}, false, nil
	}

	// Check if expired
	if m.ttl > 0 && m.now().Sub(entry.timestamp) > m.ttl {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return types.SentimentAssessment{}, false, nil
	}
	return entry.sa, true, nil
}

func (m *Memory) Put(_ context.Context, key string, sa types.SentimentAssessment) error {
	sa.Cached = false

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryEntry{sa: sa, timestamp: m.now()}
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]memoryEntry)
	return nil
}

func (m *Memory) Close() error { return nil }

// Nop never stores anything. It backs the NONE cache backend.
type Nop struct{}

var _ interfaces.SentimentCache = Nop{}

func (Nop) Get(context.Context, string) (types.SentimentAssessment, bool, error) {
	return types.SentimentAssessment{}, false, nil
}

func (Nop) Put(context.Context, string, types.SentimentAssessment) error { return nil }
func (Nop) Clear(context.Context) error                                  { return nil }
func (Nop) Close() error                                                 { return nil }
