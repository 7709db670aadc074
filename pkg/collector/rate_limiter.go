package collector

import "context"

// RateLimiter limita cuántos dispositivos se consultan a la vez
type RateLimiter struct {
	maxConcurrent int
	semaphore     chan struct{}
}

// NewRateLimiter crea un nuevo rate limiter
func NewRateLimiter(maxConcurrent int) *RateLimiter {
	return &RateLimiter{
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
	}
}

// Acquire espera un slot libre o a que se cancele el contexto
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	select {
	case rl.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release libera un slot
func (rl *RateLimiter) Release() {
	<-rl.semaphore
}

// InUse retorna cuántos slots están ocupados
func (rl *RateLimiter) InUse() int {
	return len(rl.semaphore)
}
