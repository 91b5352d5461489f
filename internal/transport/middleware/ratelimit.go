package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/brainq-backend/pkg/ctxutil"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client. Authenticated requests are
// keyed by user id, anonymous ones by client address.
type RateLimiter struct {
	clock   clockwork.Clock
	limit   rate.Limit
	burst   int
	clients sync.Map // map[string]*clientLimiter
	stop    chan struct{}
	once    sync.Once
}

type clientLimiter struct {
	lim      *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per client
// with the given burst, and starts background cleanup of idle clients.
// Call Stop() on shutdown.
func NewRateLimiter(perMinute, burst int, cleanupInterval time.Duration, clock clockwork.Clock) *RateLimiter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	rl := &RateLimiter{
		clock: clock,
		limit: rate.Limit(float64(perMinute) / 60.0),
		burst: burst,
		stop:  make(chan struct{}),
	}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := rl.clock.Now()
		c := rl.client(clientKey(r), now)

		c.mu.Lock()
		c.lastSeen = now
		res := c.lim.ReserveN(now, 1)
		delay := res.DelayFrom(now)
		if delay > 0 {
			res.CancelAt(now)
		}
		c.mu.Unlock()

		if !res.OK() || delay > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			writeError(w, r, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if id, ok := ctxutil.UserIDFromCtx(r.Context()); ok {
		return "user:" + id.String()
	}
	if ip := ctxutil.ClientIPFromCtx(r.Context()); ip != "" {
		return "ip:" + ip
	}
	return "ip:" + remoteHost(r.RemoteAddr)
}

func (rl *RateLimiter) client(key string, now time.Time) *clientLimiter {
	if v, ok := rl.clients.Load(key); ok {
		return v.(*clientLimiter)
	}
	v, _ := rl.clients.LoadOrStore(key, &clientLimiter{
		lim:      rate.NewLimiter(rl.limit, rl.burst),
		lastSeen: now,
	})
	return v.(*clientLimiter)
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := rl.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.Chan():
			rl.evictIdle(rl.clock.Now())
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.clients.Range(func(key, value any) bool {
		c := value.(*clientLimiter)
		c.mu.Lock()
		idle := now.Sub(c.lastSeen)
		c.mu.Unlock()
		if idle > limiterIdleTTL {
			rl.clients.Delete(key)
		}
		return true
	})
}
