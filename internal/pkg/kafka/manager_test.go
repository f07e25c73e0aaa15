package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsumeLoopBacksOffOnError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delay := 20 * time.Millisecond
	calls := 0
	start := time.Now()
	consumeLoop(ctx, delay, func(context.Context) error {
		calls++
		if calls == 3 {
			cancel()
		}
		return errors.New("kafka: client has run out of available brokers")
	})

	assert.Equal(t, 3, calls)
	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
}

func TestConsumeLoopStopsDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	calls := 0
	go func() {
		defer close(done)
		consumeLoop(ctx, time.Hour, func(context.Context) error {
			calls++
			return errors.New("broker down")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consume loop did not stop after cancel")
	}
	assert.Equal(t, 1, calls)
}

func TestConsumeLoopRejoinsAfterRebalance(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	start := time.Now()
	consumeLoop(ctx, time.Hour, func(context.Context) error {
		calls++
		if calls == 5 {
			cancel()
		}
		return nil
	})

	assert.Equal(t, 5, calls)
	assert.Less(t, time.Since(start), time.Second)
}
