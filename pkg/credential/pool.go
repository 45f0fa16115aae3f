package credential

import (
	"context"

	"github.com/vibebiz/perimeter/pkg/observability"
)

// Pool bounds the number of concurrent bcrypt operations. Hashing is
// intentionally CPU-expensive, so unbounded concurrent authentication
// attempts would let callers turn the cost factor into a denial-of-service
// amplifier. All hashing on the request path goes through a Pool.
type Pool struct {
	slots chan struct{}
}

// DefaultPoolSize bounds total hashing CPU to four concurrent operations.
const DefaultPoolSize = 4

// NewPool creates a pool allowing at most size concurrent hash or verify
// operations. Sizes below one fall back to DefaultPoolSize.
func NewPool(size int) *Pool {
	if size < 1 {
		size = DefaultPoolSize
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Hash acquires a slot and hashes plaintext, blocking while the pool is
// saturated. It fails with the context's error if ctx is done first.
func (p *Pool) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()
	return Hash(plaintext)
}

// Verify acquires a slot and verifies plaintext against hashed. When ctx is
// done before a slot frees up, it returns false and the context's error;
// the caller must treat that as a failed authentication, not a mismatch.
func (p *Pool) Verify(ctx context.Context, plaintext, hashed string) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.release()
	return Verify(plaintext, hashed), nil
}

func (p *Pool) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		observability.HashOperationsInFlight.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) release() {
	observability.HashOperationsInFlight.Dec()
	<-p.slots
}
