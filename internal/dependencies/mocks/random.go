package mocks

import (
	"sync"

	"github.com/mcoot/liarsdice-go/internal/dependencies/random"
)

// MockRandom hands out queued values in order. Once a queue is drained,
// String returns "" and Bytes returns zeroes.
type MockRandom struct {
	mu      sync.Mutex
	strings []string
	bytes   [][]byte
}

var _ random.Random = (*MockRandom)(nil)

func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) String(int, string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.strings) == 0 {
		return ""
	}
	next := r.strings[0]
	r.strings = r.strings[1:]
	return next
}

func (r *MockRandom) Bytes(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bytes) == 0 {
		return make([]byte, n)
	}
	next := r.bytes[0]
	r.bytes = r.bytes[1:]
	return next
}

// QueueString queues game ids and other generated strings
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	r.strings = append(r.strings, values...)
	r.mu.Unlock()
}

// QueueBytes queues entropy for seed mixing
func (r *MockRandom) QueueBytes(values ...[]byte) {
	r.mu.Lock()
	r.bytes = append(r.bytes, values...)
	r.mu.Unlock()
}
