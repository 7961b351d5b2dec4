package telegram

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxRequestsPerSecond   = 3
	requestBurst           = 3
	requestQueueSize       = 100
	defaultWorkerCount     = 30
	requestTimeout         = 15 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute  // How often to clean up rate limiters
	rateLimiterMaxIdleTime = 10 * time.Minute // Max idle time before removing rate limiter
)

// workerPool updatelarni parallel qayta ishlaydi.
// Bir userning barcha updatelari bitta workerga tushadi, shuning uchun ular kelish tartibida bajariladi.
type workerPool struct {
	queues      []chan *updateRequest
	workerCount int
	handler     *BotHandler
	wg          sync.WaitGroup
	closeOnce   sync.Once

	// Rate limiting per user
	rateLimiter   map[int64]*userRateLimit
	rateLimiterMu sync.Mutex
}

type userRateLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	wp := &workerPool{
		queues:      make([]chan *updateRequest, workerCount),
		workerCount: workerCount,
		handler:     handler,
		rateLimiter: make(map[int64]*userRateLimit),
	}
	for i := range wp.queues {
		wp.queues[i] = make(chan *updateRequest, requestQueueSize)
	}
	return wp
}

func (wp *workerPool) start(ctx context.Context) {
	wp.handler.log.Info("starting workers", "count", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go wp.cleanupRateLimits(ctx)
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	queue := wp.queues[id]
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-queue:
			if !ok {
				return
			}
			if req == nil {
				continue
			}
			wp.process(req)
		}
	}
}

func (wp *workerPool) process(req *updateRequest) {
	ctx, cancel := context.WithTimeout(req.ctx, requestTimeout)
	defer cancel()

	log := wp.handler.log.With("request_id", req.requestID, "user_id", req.userID)
	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling update", "panic", r)
			wp.handler.sendMessage(req.chatID, msgInternalError)
		}
	}()

	switch {
	case req.callback != nil:
		wp.handler.handleCallback(ctx, req.callback)
	case req.message != nil:
		if !wp.checkRateLimit(req.userID) {
			log.Warn("rate limit exceeded")
			wp.handler.sendMessage(req.chatID, msgRateLimited)
			return
		}
		wp.handler.handleMessage(ctx, req.message)
	}
}

// shardFor userID -> navbat indeksi
func (wp *workerPool) shardFor(userID int64) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID % int64(wp.workerCount))
}

// submit updateni user navbatiga qo'yadi; navbat to'la bo'lsa rad etadi
func (wp *workerPool) submit(req *updateRequest) bool {
	queue := wp.queues[wp.shardFor(req.userID)]
	select {
	case queue <- req:
		return true
	default:
		wp.handler.log.Warn("worker queue is full, rejecting update", "user_id", req.userID, "queued", len(queue))
		wp.handler.sendMessage(req.chatID, msgBusy)
		return false
	}
}

func (wp *workerPool) checkRateLimit(userID int64) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	entry, ok := wp.rateLimiter[userID]
	if !ok {
		entry = &userRateLimit{limiter: rate.NewLimiter(rate.Limit(maxRequestsPerSecond), requestBurst)}
		wp.rateLimiter[userID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := wp.evictIdle(now); n > 0 {
				wp.handler.log.Debug("cleaned up inactive rate limiters", "count", n)
			}
		}
	}
}

func (wp *workerPool) evictIdle(now time.Time) int {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()
	deleted := 0
	for userID, entry := range wp.rateLimiter {
		if now.Sub(entry.lastSeen) > rateLimiterMaxIdleTime {
			delete(wp.rateLimiter, userID)
			deleted++
		}
	}
	return deleted
}

// shutdown navbatlarni yopib, workerlar tugashini kutadi
func (wp *workerPool) shutdown() {
	wp.closeOnce.Do(func() {
		for _, q := range wp.queues {
			close(q)
		}
	})
	wp.wg.Wait()
	wp.handler.log.Info("worker pool shut down")
}
