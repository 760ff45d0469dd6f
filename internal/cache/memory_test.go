package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/ChizhovVadim/perftdebug/internal/perft"
)

var errClosed = errors.New("cache closed")

// Memory is an in-process Cache for tests.
type Memory struct {
	mu     sync.RWMutex
	items  map[string]perft.MoveCountMap
	closed bool
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]perft.MoveCountMap)}
}

func (m *Memory) Get(ctx context.Context, key string) (perft.MoveCountMap, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, errClosed
	}
	var counts, found = m.items[key]
	if !found {
		return nil, false, nil
	}
	return clone(counts), true, nil
}

func (m *Memory) Put(ctx context.Context, key string, counts perft.MoveCountMap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errClosed
	}
	m.items[key] = clone(counts)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.items = nil
	return nil
}

func clone(counts perft.MoveCountMap) perft.MoveCountMap {
	var result = make(perft.MoveCountMap, len(counts))
	for move, nodes := range counts {
		result[move] = nodes
	}
	return result
}
