package buffer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/cenkalti/backoff/v5"
)

// Pool is an optional, bounded allocator. It caps the total number of bytes
// outstanding across every Buffer it has allocated and, when RetryBudget is
// set, retries a transiently-over-budget request with exponential backoff
// before giving up with an *AllocationError.
//
// The zero-value allocator used directly by Alloc (pool == nil) has none of
// these semantics: it is unconditional, exactly as the spec requires for
// make/uniqueify/push/put's fast and slow paths.
type Pool struct {
	// Budget is the maximum number of bytes this pool will hand out at
	// once. Zero means unbounded.
	Budget datasize.ByteSize
	// RetryBudget bounds how long alloc will retry a request that
	// currently exceeds Budget before returning AllocationError. Zero
	// means fail immediately without retrying.
	RetryBudget time.Duration

	outstanding atomic.Int64
}

// NewPool constructs a Pool with the given byte budget. A zero budget means
// unbounded (every allocation succeeds immediately).
func NewPool(budget datasize.ByteSize, retryBudget time.Duration) *Pool {
	return &Pool{Budget: budget, RetryBudget: retryBudget}
}

func (p *Pool) alloc(capacity int) ([]byte, error) {
	if p.Budget == 0 {
		p.outstanding.Add(int64(capacity))
		return make([]byte, capacity), nil
	}

	if p.reserve(capacity) {
		return make([]byte, capacity), nil
	}

	if p.RetryBudget <= 0 {
		return nil, &AllocationError{Requested: capacity, Reason: "pool budget exhausted"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.RetryBudget)
	defer cancel()

	op := func() (struct{}, error) {
		if p.reserve(capacity) {
			return struct{}{}, nil
		}
		return struct{}{}, errBudgetExhausted
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(p.RetryBudget),
	)
	if err != nil {
		return nil, &AllocationError{Requested: capacity, Reason: "pool budget exhausted after retry"}
	}
	return make([]byte, capacity), nil
}

func (p *Pool) reserve(capacity int) bool {
	for {
		cur := p.outstanding.Load()
		next := cur + int64(capacity)
		if next > int64(p.Budget) {
			return false
		}
		if p.outstanding.CompareAndSwap(cur, next) {
			return true
		}
	}
}

func (p *Pool) free(mem []byte) {
	if p.Budget == 0 {
		p.outstanding.Add(-int64(cap(mem)))
		return
	}
	p.outstanding.Add(-int64(cap(mem)))
}

// Outstanding returns the number of bytes currently accounted as allocated
// by this pool, chiefly for tests and introspection.
func (p *Pool) Outstanding() int64 {
	return p.outstanding.Load()
}

var errBudgetExhausted = &AllocationError{Reason: "pool budget exhausted"}
