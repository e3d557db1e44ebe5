package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockSlack struct {
	mock.Mock
	wg *sync.WaitGroup
}

func (m *mockSlack) PostMessage(ctx context.Context, channelID string, message string) error {
	defer m.wg.Done()
	args := m.Called(channelID, message)
	return args.Error(0)
}

func TestRecorderKeepsLimit(t *testing.T) {
	r := NewRecorder(2)
	ctx := context.Background()
	r.Notify(ctx, Toast{Title: "a"})
	r.Notify(ctx, Toast{Title: "b"})
	r.Notify(ctx, Toast{Title: "c"})

	toasts := r.Toasts()
	assert.Len(t, toasts, 2)
	assert.Equal(t, "b", toasts[0].Title)

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, "c", last.Title)

	assert.Len(t, r.Drain(), 2)
	assert.Empty(t, r.Toasts())
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(10), NewRecorder(10)
	Multi{a, nil, b}.Notify(context.Background(), Toast{Title: "x"})
	assert.Len(t, a.Toasts(), 1)
	assert.Len(t, b.Toasts(), 1)
}

func TestSlackSinkForwardsOnlyDestructive(t *testing.T) {
	var wg sync.WaitGroup
	provider := &mockSlack{wg: &wg}
	provider.On("PostMessage", "#ops", mock.AnythingOfType("string")).Return(nil).Once()

	sink := NewSlackSink(provider, "#ops", zap.NewNop())
	sink.Start()

	wg.Add(1)
	sink.Notify(context.Background(), Toast{Title: "Ticket created", Severity: SeveritySuccess})
	sink.Notify(context.Background(), Toast{Title: "Delete rejected", Severity: SeverityDestructive})
	wg.Wait()
	sink.Stop()

	provider.AssertExpectations(t)
}
