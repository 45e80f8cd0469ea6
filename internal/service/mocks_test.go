package service_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockNotifier
type MockNotifier struct {
	mock.Mock
	mu sync.Mutex
}

func (m *MockNotifier) Notify(ctx context.Context, events ...domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called(ctx, events)
}

func (m *MockNotifier) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, call := range m.Calls {
		out = append(out, call.Arguments.Get(1).([]domain.Event)...)
	}
	return out
}

func newMockNotifier() *MockNotifier {
	n := new(MockNotifier)
	n.On("Notify", mock.Anything, mock.Anything).Return()
	return n
}

// testClock is a settable clock shared by a test and the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errStatsDown = errors.New("stats unavailable")

// failingStatsStore fails every stats write made inside a transaction.
type failingStatsStore struct {
	repository.Store
}

func (s failingStatsStore) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(failingStatsStore{Store: tx})
	})
}

func (s failingStatsStore) Stats() repository.StatsRepository {
	return failingStats{s.Store.Stats()}
}

type failingStats struct {
	repository.StatsRepository
}

func (failingStats) Increment(context.Context, int32, int32, int32) error {
	return errStatsDown
}
