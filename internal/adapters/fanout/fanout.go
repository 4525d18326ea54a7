// Package fanout resolves distinct resolution requests concurrently.
// Catalog and mapping reads have no ordering dependency between
// requests, so a batch fans out across a bounded worker pool and merges
// results independently; one request's failure never aborts its
// siblings.
package fanout

import (
	"context"
	"runtime"
	"sync"

	"github.com/pitchmark/pitchmark/internal/domain/mapper"
	"github.com/pitchmark/pitchmark/pkg/metrics"
)

// Resolver abstracts what the pool runs per distinct action type.
type Resolver interface {
	Resolve(ctx context.Context, actionType, description string) (mapper.Resolution, error)
}

// Request is one resolution job. True duplicates collapse to a single
// resolution; the first request's text is used for that key.
type Request struct {
	ActionType  string
	Description string
}

// Key is the collapse key: normalized action type plus description.
// The description participates because the keyword fallback reads it,
// so two same-type actions with different descriptions may classify
// differently and must resolve separately.
func (r Request) Key() string {
	return mapper.Normalize(r.ActionType) + "\x00" + r.Description
}

// Outcome is the per-type result: a resolution or a per-type failure.
type Outcome struct {
	Resolution mapper.Resolution
	Err        error
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent resolution workers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// Pool is a bounded concurrent resolver for batches of action types.
type Pool struct {
	workers int
}

// NewPool creates a pool with configuration options.
func NewPool(opts ...Option) *Pool {
	p := &Pool{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(p)
	}
	metrics.UpdateFanoutWorkers(p.workers)
	return p
}

// ResolveAll resolves every distinct request in the batch and returns
// outcomes keyed by Request.Key. Deterministic: the outcome for a key
// does not depend on worker scheduling, only on the resolver and the
// first request carrying that key.
func (p *Pool) ResolveAll(ctx context.Context, r Resolver, reqs []Request) map[string]Outcome {
	// Collapse to distinct keys, keeping first-request text.
	keys := make([]string, 0, len(reqs))
	byKey := make(map[string]Request, len(reqs))
	for _, req := range reqs {
		key := req.Key()
		if _, seen := byKey[key]; seen {
			continue
		}
		byKey[key] = req
		keys = append(keys, key)
	}

	outcomes := make(map[string]Outcome, len(keys))
	if len(keys) == 0 {
		return outcomes
	}

	workers := p.workers
	if workers > len(keys) {
		workers = len(keys)
	}

	jobs := make(chan string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				req := byKey[key]
				res, err := r.Resolve(ctx, req.ActionType, req.Description)

				mu.Lock()
				outcomes[key] = Outcome{Resolution: res, Err: err}
				mu.Unlock()
			}
		}()
	}

	for _, key := range keys {
		select {
		case <-ctx.Done():
			// Remaining keys fail with the context error; completed
			// outcomes are kept.
			mu.Lock()
			for _, k := range keys {
				if _, done := outcomes[k]; !done {
					outcomes[k] = Outcome{Err: ctx.Err()}
				}
			}
			mu.Unlock()
			close(jobs)
			wg.Wait()
			return outcomes
		case jobs <- key:
		}
	}
	close(jobs)
	wg.Wait()

	return outcomes
}
