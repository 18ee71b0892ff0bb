package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bnema/studybuddy/internal/domain"
	"github.com/stretchr/testify/mock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) Model() string {
	return "test:model"
}

type funcGenerator func(ctx context.Context, prompt string) (string, error)

func (f funcGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func (f funcGenerator) Model() string {
	return "test:func"
}

type staticTips struct {
	tips []domain.Tip
	err  error
}

func (s staticTips) List(context.Context) ([]domain.Tip, error) {
	return s.tips, s.err
}

func (s staticTips) Add(context.Context, domain.Tip) error {
	return errors.New("read only")
}

type memorySecretStore struct {
	values map[string]string
}

func (m *memorySecretStore) Get(_ context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

func (m *memorySecretStore) Put(_ context.Context, key string, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *memorySecretStore) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

var testSettings = Settings{
	DefaultTimerSeconds: 25 * 60,
	BreakSeconds:        5 * 60,
	FocusOptions:        []int{10, 20, 30, 40, 50, 60},
	TipCount:            3,
	GeneratorTimeout:    time.Second,
}

func mockAnyContext() interface{} {
	return mock.Anything
}
