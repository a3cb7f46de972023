package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

type guildTask struct {
	ctx  context.Context
	run  func(context.Context)
	done chan struct{}
}

// GuildExecutor runs tasks one at a time per guild, in submission order.
// Tasks for different guilds run concurrently. A guild with no pending
// work holds no goroutine.
type GuildExecutor struct {
	mu      sync.Mutex
	pending map[snowflake.ID][]guildTask
	running map[snowflake.ID]bool
}

// NewGuildExecutor creates a new GuildExecutor.
func NewGuildExecutor() *GuildExecutor {
	return &GuildExecutor{
		pending: make(map[snowflake.ID][]guildTask),
		running: make(map[snowflake.ID]bool),
	}
}

// Do enqueues fn for the guild and waits for it to finish.
// If ctx ends first, Do returns ctx.Err(); fn still runs in its turn and
// observes the cancelled context.
func (e *GuildExecutor) Do(ctx context.Context, guildID snowflake.ID, fn func(context.Context)) error {
	task := guildTask{ctx: ctx, run: fn, done: make(chan struct{})}

	e.mu.Lock()
	e.pending[guildID] = append(e.pending[guildID], task)
	if !e.running[guildID] {
		e.running[guildID] = true
		go e.drain(guildID)
	}
	e.mu.Unlock()

	select {
	case <-task.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending returns the number of tasks waiting behind the running one.
func (e *GuildExecutor) Pending(guildID snowflake.ID) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending[guildID])
}

func (e *GuildExecutor) drain(guildID snowflake.ID) {
	for {
		e.mu.Lock()
		queue := e.pending[guildID]
		if len(queue) == 0 {
			delete(e.pending, guildID)
			delete(e.running, guildID)
			e.mu.Unlock()
			return
		}
		task := queue[0]
		e.pending[guildID] = queue[1:]
		e.mu.Unlock()

		e.runTask(guildID, task)
	}
}

func (e *GuildExecutor) runTask(guildID snowflake.ID, task guildTask) {
	defer close(task.done)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered from panic in guild task", "guild", guildID, "panic", r)
		}
	}()
	task.run(task.ctx)
}

// submit runs fn on the guild's executor and returns its result.
func submit[T any](
	ctx context.Context,
	e *GuildExecutor,
	guildID snowflake.ID,
	fn func(context.Context) (T, error),
) (T, error) {
	var (
		result T
		err    error
	)
	if doErr := e.Do(ctx, guildID, func(ctx context.Context) {
		result, err = fn(ctx)
	}); doErr != nil {
		var zero T
		return zero, doErr
	}
	return result, err
}
