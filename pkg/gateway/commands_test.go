package gateway

import (
	"context"
	"testing"
	"time"

	"commerce-assistant-be/internal/pkg/logger"
)

func newTestController(t *testing.T, ft *fakeTransport) *Controller {
	t.Helper()
	gw := newTestGateway(t, ft)
	c := NewController(gw, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c
}

func TestStatusCommandReportsPartitionCounts(t *testing.T) {
	ft := newFakeTransport()
	ft.responses["/api/assistant/v1/knowledge/faq"] = `{"title":"faq"}`
	c := newTestController(t, ft)

	res, err := c.Status(t.Context())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !res.Success || res.StaticEntries != 0 || res.KnowledgeEntries != 0 {
		t.Errorf("empty status = %+v", res)
	}
}

func TestClearCacheCommandReplies(t *testing.T) {
	c := newTestController(t, newFakeTransport())

	ok, err := c.ClearCache(t.Context())
	if err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if !ok {
		t.Error("clear on empty partitions must still succeed")
	}
}

func TestUnknownCommandRepliesWithError(t *testing.T) {
	c := newTestController(t, newFakeTransport())

	reply := make(chan CommandResult, 1)
	if err := c.Submit(t.Context(), Command{Type: CommandType("SELF_DESTRUCT"), Reply: reply}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	select {
	case res := <-reply:
		if res.Success || res.Err == nil {
			t.Errorf("unknown command result = %+v, want failure with error", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply for unknown command")
	}
}

func TestPreCacheRunsInBackgroundAndSignalsCompletion(t *testing.T) {
	ft := newFakeTransport()
	ft.responses["/api/assistant/v1/knowledge/faq"] = `{"title":"faq"}`
	ft.responses["/api/assistant/v1/knowledge/hours"] = `{"weekdays":"08:00-18:00"}`

	gw := newTestGateway(t, ft)
	c := NewController(gw, logger.NewNopLogger())

	done := make(chan [2]int, 1)
	c.OnPrewarm(func(cached, failed int) {
		done <- [2]int{cached, failed}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)

	if err := c.PreCache(ctx); err != nil {
		t.Fatalf("PreCache: %v", err)
	}

	select {
	case counts := <-done:
		if counts[0] != 2 || counts[1] != 0 {
			t.Errorf("prewarm counts = %v, want [2 0]", counts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("prewarm completion hook never fired")
	}

	res, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if res.KnowledgeEntries != 2 {
		t.Errorf("knowledge entries after prewarm = %d, want 2", res.KnowledgeEntries)
	}
}

func TestCommandLoopSurvivesHandlerPanic(t *testing.T) {
	// A nil gateway makes every handler panic. The loop must still reply
	// and keep serving the next command.
	c := NewController(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)

	for i := 0; i < 2; i++ {
		reply := make(chan CommandResult, 1)
		if err := c.Submit(ctx, Command{Type: CommandClearCache, Reply: reply}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
		select {
		case res := <-reply:
			if res.Success || res.Err == nil {
				t.Errorf("panicking handler result = %+v, want failure", res)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("panicking handler never replied")
		}
	}
}
