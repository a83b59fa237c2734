// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Limiter counts events per key in fixed windows. It is safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int           // max events per window
	duration time.Duration // window duration
	cleanup  time.Duration // how often to clean old entries
	now      func() time.Time
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a Limiter allowing limit events per duration for each key.
// Call Stop to end its cleanup goroutine.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		cleanup:  duration * 2, // cleanup entries older than 2x duration
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Exceeded reports whether key has used up its window without recording
// anything.
func (l *Limiter) Exceeded(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return false
	}
	return w.count >= l.limit
}

// Record counts one event for key, opening a new window when the previous
// one has expired.
func (l *Limiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return
	}
	w.count++
}

// Reset clears the window for a specific key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the cleanup goroutine and waits for it to exit. It is safe to
// call more than once.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
	<-l.done
}

// cleanupLoop periodically removes expired entries to prevent memory leaks.
func (l *Limiter) cleanupLoop() {
	defer close(l.done)
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP returns the host part of RemoteAddr. chi's RealIP middleware has
// already rewritten RemoteAddr when the service runs behind a proxy.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}

// KeyLimiter throttles failed API-key attempts. It tracks both the client
// IP and the targeted user id so neither a single client guessing many
// accounts nor many clients guessing one account get unlimited tries.
// Successful requests are never counted.
type KeyLimiter struct {
	ipLimiter   *Limiter
	userLimiter *Limiter
}

// Defaults for NewKeyLimiter.
const (
	DefaultIPFailures   = 20
	DefaultUserFailures = 5
	DefaultWindow       = 5 * time.Minute
)

// NewKeyLimiter creates a limiter with the given failure budgets per window.
// Non-positive values fall back to the defaults.
func NewKeyLimiter(ipFailures, userFailures int, window time.Duration) *KeyLimiter {
	if ipFailures <= 0 {
		ipFailures = DefaultIPFailures
	}
	if userFailures <= 0 {
		userFailures = DefaultUserFailures
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &KeyLimiter{
		ipLimiter:   New(ipFailures, window),
		userLimiter: New(userFailures, window),
	}
}

// Blocked reports whether an attempt from r against userID must be refused
// without checking the key.
func (kl *KeyLimiter) Blocked(r *http.Request, userID string) bool {
	return kl.ipLimiter.Exceeded(ClientIP(r)) || kl.userLimiter.Exceeded(userID)
}

// Failed records a rejected key.
func (kl *KeyLimiter) Failed(r *http.Request, userID string) {
	kl.ipLimiter.Record(ClientIP(r))
	kl.userLimiter.Record(userID)
}

// Succeeded clears the user's failure window after a good key.
func (kl *KeyLimiter) Succeeded(userID string) {
	kl.userLimiter.Reset(userID)
}

// Stop ends both cleanup goroutines.
func (kl *KeyLimiter) Stop() {
	kl.ipLimiter.Stop()
	kl.userLimiter.Stop()
}
