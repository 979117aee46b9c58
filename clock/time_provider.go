package clock

import (
	"sync"
	"time"
)

// TimeProvider abstracts the wall-clock source so schedulers and clocks
// can be driven deterministically in tests
type TimeProvider interface {
	Now() time.Time
}

// MonotonicProvider reads the real system time with monotonic readings
type MonotonicProvider struct{}

// NewMonotonicProvider creates a real time provider
func NewMonotonicProvider() *MonotonicProvider {
	return &MonotonicProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicProvider) Now() time.Time {
	return time.Now()
}

// MockProvider provides a controllable time source for testing
type MockProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockProvider creates a mock provider with the given start time
func NewMockProvider(startTime time.Time) *MockProvider {
	return &MockProvider{currentTime: startTime}
}

// Now returns the current mocked time
func (m *MockProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime sets the current time for the mock
func (m *MockProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance advances the current time by the given duration
func (m *MockProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
