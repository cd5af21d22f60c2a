package telegram

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRateLimit(t *testing.T) {
	h, _ := newTestHandler(t, &stubAI{})
	wp := h.workerPool

	for i := 0; i < maxRequestsPerSecond; i++ {
		if !wp.checkRateLimit(7) {
			t.Fatalf("request %d rejected", i+1)
		}
	}
	if wp.checkRateLimit(7) {
		t.Fatal("expected the rate limit to trigger")
	}
	if !wp.checkRateLimit(8) {
		t.Fatal("other users must not be limited")
	}
}

func TestEvictIdleRateLimiters(t *testing.T) {
	h, _ := newTestHandler(t, &stubAI{})
	wp := h.workerPool
	now := time.Now()

	wp.rateLimiter[1] = &userRateLimit{lastRequest: now.Add(-2 * rateLimiterMaxIdleTime)}
	wp.rateLimiter[2] = &userRateLimit{lastRequest: now}

	if removed := wp.evictIdle(now); removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	if _, ok := wp.rateLimiter[2]; !ok {
		t.Fatal("active limiter evicted")
	}
}

func TestSubmitRejectsWhenQueueFull(t *testing.T) {
	h, bot := newTestHandler(t, &stubAI{})
	wp := &workerPool{
		requestQueue: make(chan *aiJob, 1),
		workerCount:  1,
		handler:      h,
		rateLimiter:  make(map[int64]*userRateLimit),
	}
	noop := func(context.Context) {}

	if !wp.submit(&aiJob{userID: 1, chatID: 1, kind: "generate", run: noop}) {
		t.Fatal("first job rejected")
	}
	if wp.submit(&aiJob{userID: 2, chatID: 2, kind: "generate", run: noop}) {
		t.Fatal("second job accepted into a full queue")
	}
	if !strings.Contains(bot.joined(), "very busy") {
		t.Fatalf("missing busy notice, got %q", bot.joined())
	}
}

func TestProcessRecoversFromPanic(t *testing.T) {
	h, bot := newTestHandler(t, &stubAI{})

	h.workerPool.process(&aiJob{
		ctx:    context.Background(),
		userID: 1,
		chatID: 1,
		kind:   "generate",
		run:    func(context.Context) { panic("boom") },
	})

	if !strings.Contains(bot.joined(), "Internal error") {
		t.Fatalf("missing internal error notice, got %q", bot.joined())
	}
}

func TestProcessAppliesTimeout(t *testing.T) {
	h, _ := newTestHandler(t, &stubAI{})

	var deadline time.Time
	var ok bool
	h.workerPool.process(&aiJob{
		userID: 1,
		chatID: 1,
		kind:   "image",
		run: func(ctx context.Context) {
			deadline, ok = ctx.Deadline()
		},
	})

	if !ok {
		t.Fatal("job context has no deadline")
	}
	if time.Until(deadline) > aiRequestTimeout {
		t.Fatalf("deadline too far: %s", time.Until(deadline))
	}
}

func TestWorkersDrainQueue(t *testing.T) {
	h, _ := newTestHandler(t, &stubAI{})
	ctx, cancel := context.WithCancel(context.Background())
	h.workerPool.start(ctx)

	done := make(chan struct{})
	h.workerPool.submit(&aiJob{
		ctx:    ctx,
		userID: 3,
		chatID: 3,
		kind:   "advisor",
		run:    func(context.Context) { close(done) },
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
	cancel()
	h.workerPool.shutdown()
}
