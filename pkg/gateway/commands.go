package gateway

import (
	"context"
	"fmt"

	"commerce-assistant-be/internal/pkg/logger"
)

// CommandType enumerates the cache command protocol.
type CommandType string

const (
	CommandPreCacheAI     CommandType = "PRE_CACHE_AI"
	CommandClearCache     CommandType = "CLEAR_CACHE"
	CommandGetCacheStatus CommandType = "GET_CACHE_STATUS"
)

// CommandResult is delivered on the per-call reply channel.
type CommandResult struct {
	Success          bool
	StaticEntries    int
	KnowledgeEntries int
	Err              error
}

// Command is one protocol request. Reply must be a fresh, unshared
// channel per call (nil for fire-and-forget commands); the controller
// sends exactly one result on it and never closes it.
type Command struct {
	Type  CommandType
	Reply chan CommandResult
}

// Controller runs the command loop of one Gateway. Handlers reply exactly
// once per request, even on internal failure, so callers never block.
type Controller struct {
	gw        *Gateway
	commands  chan Command
	logger    logger.ILogger
	onPrewarm func(cached, failed int)
}

// NewController creates a controller; call Run to start serving.
func NewController(gw *Gateway, log logger.ILogger) *Controller {
	return &Controller{
		gw:       gw,
		commands: make(chan Command, 16),
		logger:   log,
	}
}

// OnPrewarm registers a completion hook for PRE_CACHE_AI runs. Set it
// before Run.
func (c *Controller) OnPrewarm(fn func(cached, failed int)) {
	c.onPrewarm = fn
}

// Run serves commands until the context is cancelled.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-c.commands:
			c.handle(ctx, cmd)
		}
	}
}

func (c *Controller) handle(ctx context.Context, cmd Command) {
	reply := func(res CommandResult) {
		if cmd.Reply == nil {
			return
		}
		select {
		case cmd.Reply <- res:
		default:
			// Caller reused or abandoned its channel; dropping beats
			// wedging the command loop.
			c.logger.Warn("CacheController", "Reply channel not ready, result dropped", map[string]interface{}{
				"type": string(cmd.Type),
			})
		}
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("CacheController", "Command handler panicked", map[string]interface{}{
				"type": string(cmd.Type), "panic": fmt.Sprint(r),
			})
			reply(CommandResult{Success: false, Err: fmt.Errorf("internal error: %v", r)})
		}
	}()

	switch cmd.Type {
	case CommandPreCacheAI:
		// Fire-and-forget: prewarm runs outside the loop so slow
		// knowledge endpoints don't stall CLEAR/STATUS handling.
		go func() {
			cached, failed := c.gw.PrewarmKnowledge(ctx)
			if c.onPrewarm != nil {
				c.onPrewarm(cached, failed)
			}
		}()
		reply(CommandResult{Success: true})

	case CommandClearCache:
		if err := c.gw.ClearCaches(); err != nil {
			c.logger.Error("CacheController", "Clear cache failed", map[string]interface{}{"error": err.Error()})
			reply(CommandResult{Success: false, Err: err})
			return
		}
		c.logger.Info("CacheController", "Caches cleared", nil)
		reply(CommandResult{Success: true})

	case CommandGetCacheStatus:
		static, knowledge, err := c.gw.Status()
		if err != nil {
			reply(CommandResult{Success: false, Err: err})
			return
		}
		reply(CommandResult{Success: true, StaticEntries: static, KnowledgeEntries: knowledge})

	default:
		reply(CommandResult{Success: false, Err: fmt.Errorf("unknown command type: %s", cmd.Type)})
	}
}

// Submit enqueues a raw command.
func (c *Controller) Submit(ctx context.Context, cmd Command) error {
	select {
	case c.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PreCache triggers the knowledge prewarm, fire-and-forget.
func (c *Controller) PreCache(ctx context.Context) error {
	return c.Submit(ctx, Command{Type: CommandPreCacheAI})
}

// ClearCache deletes the knowledge then the static partition and waits
// for the single reply.
func (c *Controller) ClearCache(ctx context.Context) (bool, error) {
	reply := make(chan CommandResult, 1)
	if err := c.Submit(ctx, Command{Type: CommandClearCache, Reply: reply}); err != nil {
		return false, err
	}
	select {
	case res := <-reply:
		return res.Success, res.Err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Status reports partition entry counts over the command loop.
func (c *Controller) Status(ctx context.Context) (CommandResult, error) {
	reply := make(chan CommandResult, 1)
	if err := c.Submit(ctx, Command{Type: CommandGetCacheStatus, Reply: reply}); err != nil {
		return CommandResult{}, err
	}
	select {
	case res := <-reply:
		return res, res.Err
	case <-ctx.Done():
		return CommandResult{}, ctx.Err()
	}
}
