package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingCommand struct {
	Name string
}

func (c pingCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type countingMetrics struct {
	counts map[string]int
	timers int
}

func (m *countingMetrics) StartTimer(metric, label string) Timer {
	return TimerFunc(func() { m.timers++ })
}

func (m *countingMetrics) Increment(metric, label string) {
	m.counts[metric+"/"+label]++
}

func TestCommandBus_SendDispatchesAndReturnsResult(t *testing.T) {
	// Arrange
	b := NewCommandBus()
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		return "pong:" + cmd.(pingCommand).Name, nil
	})))

	// Act
	result, err := b.Send(context.Background(), pingCommand{Name: "a"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong:a", result)
}

func TestCommandBus_ValidationRunsFirst(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		called = true
		return nil, nil
	})))

	_, err := b.Send(context.Background(), pingCommand{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
	assert.False(t, called)
}

func TestCommandBus_UnknownCommand(t *testing.T) {
	_, err := NewCommandBus().Send(context.Background(), pingCommand{Name: "x"})

	assert.ErrorIs(t, err, ErrHandlerNotFound)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	h := CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) { return nil, nil })

	require.NoError(t, b.Register(pingCommand{}, h))
	assert.Error(t, b.Register(pingCommand{}, h))
}

func TestCommandBus_MiddlewareOrderAndMetrics(t *testing.T) {
	b := NewCommandBus()
	var order []string
	trace := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}
	metrics := &countingMetrics{counts: map[string]int{}}
	b.Use(trace("outer"), trace("inner"), LoggingMiddleware(zap.NewNop()), MetricsMiddleware(metrics))
	require.NoError(t, b.Register(pingCommand{}, CommandHandlerFunc(func(ctx context.Context, cmd Command) (interface{}, error) {
		order = append(order, "handler")
		return nil, errors.New("boom")
	})))

	_, err := b.Send(context.Background(), pingCommand{Name: "x"})

	assert.Error(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.Equal(t, 1, metrics.counts["command_count/pingCommand"])
	assert.Equal(t, 1, metrics.counts["command_errors/pingCommand"])
	assert.Equal(t, 1, metrics.timers)
}
