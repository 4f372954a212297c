// Package rate cuenta intentos por clave en ventanas fijas.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	// Allow registra un intento para key y dice si sigue dentro del límite.
	Allow(ctx context.Context, key string) (Result, error)
	// Peek consulta la ventana actual sin registrar un intento.
	Peek(ctx context.Context, key string) (Result, error)
	// Reset olvida los intentos de key en la ventana actual.
	Reset(ctx context.Context, key string) error
}

// MemoryLimiter: fixed window sencillo sobre go-cache (Add + IncrementInt64).
// Cada ventana es una entrada propia que expira al terminar.
type MemoryLimiter struct {
	Prefix string
	Max    int64
	Window time.Duration
	// Now permite fijar el reloj en tests. Default: time.Now.
	Now func() time.Time

	c *gocache.Cache
}

func NewMemoryLimiter(prefix string, max int, window time.Duration) *MemoryLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
		Now:    time.Now,
		c:      gocache.New(window, 2*window),
	}
}

func (l *MemoryLimiter) window(key string) (cacheKey string, ttl time.Duration) {
	now := l.Now().UTC()
	winStart := now.Truncate(l.Window)
	cacheKey = fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())
	return cacheKey, winStart.Add(l.Window).Sub(now)
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	k, ttl := l.window(key)

	hits := int64(1)
	// Add falla si la ventana ya tiene entrada; entonces se incrementa.
	if err := l.c.Add(k, hits, ttl); err != nil {
		n, err := l.c.IncrementInt64(k, 1)
		if err != nil {
			// La entrada expiró entre ambas llamadas: ventana nueva.
			l.c.Set(k, hits, ttl)
			n = hits
		}
		hits = n
	}
	return l.result(hits, ttl), nil
}

func (l *MemoryLimiter) Peek(ctx context.Context, key string) (Result, error) {
	k, ttl := l.window(key)
	var hits int64
	if v, ok := l.c.Get(k); ok {
		hits, _ = v.(int64)
	}
	res := l.result(hits, ttl)
	// Peek no consume: con hits == Max todavía no se ha superado el límite,
	// pero el siguiente intento sí lo superaría.
	res.Allowed = hits < l.Max
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}

func (l *MemoryLimiter) Reset(ctx context.Context, key string) error {
	k, _ := l.window(key)
	l.c.Delete(k)
	return nil
}

func (l *MemoryLimiter) result(hits int64, ttl time.Duration) Result {
	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !allowed {
		// Retry after: resto de la ventana
		res.RetryAfter = ttl
	}
	return res
}
