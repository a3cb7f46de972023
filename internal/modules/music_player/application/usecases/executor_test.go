package usecases

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func TestGuildExecutor_RunsGuildTasksInSubmissionOrder(t *testing.T) {
	e := NewGuildExecutor()
	ctx := context.Background()

	gate := make(chan struct{})
	var (
		mu    sync.Mutex
		order []int
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = e.Do(ctx, testGuildID, func(context.Context) { <-gate })
	}()
	waitFor(t, func() bool { return e.Pending(testGuildID) == 0 && isRunning(e, testGuildID) })

	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(ctx, testGuildID, func(context.Context) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			})
		}()
		waitFor(t, func() bool { return e.Pending(testGuildID) == i+1 })
	}

	close(gate)
	wg.Wait()

	if want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestGuildExecutor_GuildsRunIndependently(t *testing.T) {
	e := NewGuildExecutor()
	ctx := context.Background()

	gate := make(chan struct{})
	defer close(gate)
	go func() {
		_ = e.Do(ctx, testGuildID, func(context.Context) { <-gate })
	}()
	waitFor(t, func() bool { return isRunning(e, testGuildID) })

	done := make(chan struct{})
	go func() {
		_ = e.Do(ctx, snowflake.ID(42), func(context.Context) {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task for another guild was blocked")
	}
}

func TestGuildExecutor_ContextCancelledWhileWaiting(t *testing.T) {
	e := NewGuildExecutor()

	gate := make(chan struct{})
	go func() {
		_ = e.Do(context.Background(), testGuildID, func(context.Context) { <-gate })
	}()
	waitFor(t, func() bool { return isRunning(e, testGuildID) })

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Do(ctx, testGuildID, func(context.Context) { close(ran) })
	}()
	waitFor(t, func() bool { return e.Pending(testGuildID) == 1 })

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}

	close(gate)
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled task should still run in its turn")
	}
}

func TestGuildExecutor_RecoversFromPanic(t *testing.T) {
	e := NewGuildExecutor()
	ctx := context.Background()

	if err := e.Do(ctx, testGuildID, func(context.Context) { panic("boom") }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ran := false
	if err := e.Do(ctx, testGuildID, func(context.Context) { ran = true }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Error("executor should keep serving the guild after a panic")
	}
}

func TestGuildExecutor_IdleGuildReleasesWorker(t *testing.T) {
	e := NewGuildExecutor()

	if err := e.Do(context.Background(), testGuildID, func(context.Context) {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitFor(t, func() bool { return !isRunning(e, testGuildID) })
}

func TestSubmit_ReturnsResult(t *testing.T) {
	e := NewGuildExecutor()
	errBoom := errors.New("boom")

	got, err := submit(context.Background(), e, testGuildID, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Errorf("submit = (%d, %v), want (7, nil)", got, err)
	}

	_, err = submit(context.Background(), e, testGuildID, func(context.Context) (int, error) {
		return 0, errBoom
	})
	assertErrorIs(t, err, errBoom)
}

func isRunning(e *GuildExecutor, guildID snowflake.ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running[guildID]
}
