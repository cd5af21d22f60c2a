package telegram

import (
	"context"
	"log"
	"sync"
	"time"
)

// aiJob one slow gateway call (generation, advisor search, image refresh)
type aiJob struct {
	ctx    context.Context
	userID int64
	chatID int64
	kind   string
	run    func(ctx context.Context)
}

// workerPool bounds the number of concurrent AI calls
type workerPool struct {
	requestQueue chan *aiJob
	workerCount  int
	handler      *BotHandler
	wg           sync.WaitGroup

	// Rate limiting per user
	rateLimiter   map[int64]*userRateLimit
	rateLimiterMu sync.RWMutex
}

type userRateLimit struct {
	lastRequest  time.Time
	requestCount int
	mu           sync.Mutex
}

const (
	maxRequestsPerSecond   = 3
	requestQueueSize       = 100
	defaultWorkerCount     = 8
	aiRequestTimeout       = 3 * time.Minute // generation includes the initial render
	rateLimiterCleanupTime = 5 * time.Minute
	rateLimiterMaxIdleTime = 10 * time.Minute
)

func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &workerPool{
		requestQueue: make(chan *aiJob, requestQueueSize),
		workerCount:  workerCount,
		handler:      handler,
		rateLimiter:  make(map[int64]*userRateLimit),
	}
}

func (wp *workerPool) start(ctx context.Context) {
	log.Printf("Starting %d AI workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go wp.cleanupRateLimits(ctx)
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		case job, ok := <-wp.requestQueue:
			if !ok {
				return
			}
			if job == nil {
				continue
			}
			wp.process(job)
		}
	}
}

// process runs one job with a timeout and panic recovery.
func (wp *workerPool) process(job *aiJob) {
	parent := job.ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, aiRequestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in %s job for user %d: %v", job.kind, job.userID, r)
			wp.handler.sendMessage(job.chatID, "⚠️ Internal error. Please try again.")
		}
	}()

	started := time.Now()
	job.run(ctx)
	log.Printf("🧵 %s job user=%d done in %s", job.kind, job.userID, time.Since(started).Round(time.Millisecond))
}

// checkRateLimit allows maxRequestsPerSecond jobs per user per second.
func (wp *workerPool) checkRateLimit(userID int64) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	limiter, exists := wp.rateLimiter[userID]
	if !exists {
		wp.rateLimiter[userID] = &userRateLimit{lastRequest: time.Now(), requestCount: 1}
		return true
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	now := time.Now()
	if now.Sub(limiter.lastRequest) >= time.Second {
		limiter.requestCount = 1
		limiter.lastRequest = now
		return true
	}
	if limiter.requestCount >= maxRequestsPerSecond {
		log.Printf("Rate limit exceeded for user %d", userID)
		return false
	}
	limiter.requestCount++
	return true
}

func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wp.evictIdle(time.Now())
		}
	}
}

func (wp *workerPool) evictIdle(now time.Time) int {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	removed := 0
	for userID, limiter := range wp.rateLimiter {
		limiter.mu.Lock()
		idle := now.Sub(limiter.lastRequest) > rateLimiterMaxIdleTime
		limiter.mu.Unlock()
		if idle {
			delete(wp.rateLimiter, userID)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Cleaned up %d inactive rate limiters", removed)
	}
	return removed
}

// submit queues a job; a full queue or an exceeded rate limit rejects it.
func (wp *workerPool) submit(job *aiJob) bool {
	if !wp.checkRateLimit(job.userID) {
		wp.handler.sendMessage(job.chatID, "⚠️ Too many requests. Please wait a moment.")
		return false
	}
	select {
	case wp.requestQueue <- job:
		return true
	default:
		log.Printf("Worker pool queue is full (%d/%d), rejecting %s from user %d", len(wp.requestQueue), requestQueueSize, job.kind, job.userID)
		wp.handler.sendMessage(job.chatID, "⚠️ The bot is very busy right now. Please try again shortly.")
		return false
	}
}

// shutdown waits for workers to observe the cancelled context. The queue stays open so
// late submits from in-flight handlers do not panic.
func (wp *workerPool) shutdown() {
	log.Printf("Shutting down worker pool, %d jobs in queue", len(wp.requestQueue))
	wp.wg.Wait()
	log.Println("Worker pool shut down")
}
