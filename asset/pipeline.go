package asset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/veylan/scenekit/core"
	"github.com/veylan/scenekit/event"
)

// LoadFunc resolves one asset into its value. Invoked at most once per
// asset id. The context is the shared flush context
type LoadFunc func(ctx context.Context, a *Asset) (any, error)

// BatchError wraps the failure that aborted a flush batch, recording how
// far the batch got. Results written for predecessors remain valid
type BatchError struct {
	Asset    *Asset
	Resolved int
	Total    int
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("asset: batch aborted at %q (%d/%d): %v", e.Asset.Name, e.Resolved, e.Total, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Pipeline is an explicit asset pipeline instance: a typed loader registry,
// a pending-request queue, and a result table. There is no process-wide
// default; whoever constructs the hierarchy root passes a pipeline along.
//
// Request and Flush are driven by the logic thread. The result table is
// additionally written by FlushAsync's batch goroutine, so it carries its
// own lock; everything else stays single-threaded
type Pipeline struct {
	mu       sync.Mutex
	loaders  map[Type]LoadFunc
	extTypes map[string]Type
	pending  []*Asset
	enqueued map[ID]bool

	resMu   sync.RWMutex
	results map[ID]any

	autoload bool
	inflight atomic.Bool

	// OnProgress, if set, is invoked after each successful resolution
	OnProgress func(a *Asset, resolved, total int)

	// notify receives cross-turn completion events from async flushes
	notify *event.Queue
}

// Option configures a pipeline at construction
type Option func(*Pipeline)

// WithAutoload makes requests coalesce into a batch flushed at the next
// kernel service point, instead of waiting for an explicit Flush
func WithAutoload() Option {
	return func(p *Pipeline) { p.autoload = true }
}

// WithNotify publishes TypeAssetLoaded/TypeAssetBatchFailed events for
// async flushes onto q
func WithNotify(q *event.Queue) Option {
	return func(p *Pipeline) { p.notify = q }
}

// NewPipeline creates an empty pipeline
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		loaders:  make(map[Type]LoadFunc),
		extTypes: make(map[string]Type),
		enqueued: make(map[ID]bool),
		results:  make(map[ID]any),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RegisterLoader associates a type tag with a resolver and the extensions
// that imply it. Re-registering an extension overwrites the previous
// mapping: last write wins
func (p *Pipeline) RegisterLoader(t Type, exts []string, fn LoadFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaders[t] = fn
	for _, ext := range exts {
		p.extTypes[ext] = t
	}
}

// Request normalizes a path into an asset, resolves its type by extension
// (TypeUnknown when nothing matches), enqueues it, and returns a lazy
// handle immediately, before any resolution
func (p *Pipeline) Request(path string) *LazyAsset {
	return p.RequestAsset(New(path))
}

// RequestAsset enqueues an existing asset record (or a handle's asset).
// Already-resolved and already-queued assets are not enqueued twice, which
// keeps loaders at-most-once per asset id
func (p *Pipeline) RequestAsset(a *Asset) *LazyAsset {
	p.mu.Lock()
	defer p.mu.Unlock()

	if a.Type == TypeUnknown {
		if t, ok := p.extTypes[a.Ext]; ok {
			a.Type = t
		}
	}

	if !p.resolved(a.ID) && !p.enqueued[a.ID] {
		p.pending = append(p.pending, a)
		p.enqueued[a.ID] = true
	}
	return &LazyAsset{asset: a, p: p}
}

// Requeue re-requests a handle's asset, a no-op if resolved or pending
func (p *Pipeline) Requeue(l *LazyAsset) *LazyAsset {
	return p.RequestAsset(l.asset)
}

// Pending returns the number of not-yet-flushed requests
func (p *Pipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Flush atomically takes ownership of the entire current pending queue
// (requests arriving during the flush start a new batch) and resolves each
// asset sequentially in enqueue order. A missing loader for a resolved type
// or a loader failure aborts the remaining batch; results already written
// for predecessors remain valid
func (p *Pipeline) Flush(ctx context.Context) error {
	return p.flush(ctx, p.OnProgress)
}

func (p *Pipeline) flush(ctx context.Context, progress func(*Asset, int, int)) error {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	loaders := make(map[Type]LoadFunc, len(p.loaders))
	for t, fn := range p.loaders {
		loaders[t] = fn
	}
	p.mu.Unlock()

	total := len(batch)
	for i, a := range batch {
		fn, ok := loaders[a.Type]
		if !ok {
			p.abandon(batch[i:])
			return &BatchError{
				Asset:    a,
				Resolved: i,
				Total:    total,
				Err:      fmt.Errorf("%w: type %q (asset %q)", ErrUnregisteredLoader, a.Type, a.Name),
			}
		}

		value, err := fn(ctx, a)
		if err != nil {
			p.abandon(batch[i:])
			return &BatchError{Asset: a, Resolved: i, Total: total, Err: err}
		}

		p.resMu.Lock()
		p.results[a.ID] = value
		p.resMu.Unlock()
		p.clearEnqueued(a.ID)

		if progress != nil {
			progress(a, i+1, total)
		}
	}
	return nil
}

// FlushAsync runs Flush on a batch goroutine, publishing one
// TypeAssetLoaded event per resolution and a TypeAssetBatchFailed on
// abort. Completions land on the notify queue and resume on the logic
// thread at its next dispatch turn. No-op when a flush is in flight or
// nothing is pending
func (p *Pipeline) FlushAsync(ctx context.Context) {
	if p.Pending() == 0 {
		return
	}
	if !p.inflight.CompareAndSwap(false, true) {
		return
	}
	progress := p.OnProgress
	core.Go(func() {
		defer p.inflight.Store(false)
		err := p.flush(ctx, func(a *Asset, resolved, total int) {
			if p.notify != nil {
				p.notify.Push(event.Event{Type: event.TypeAssetLoaded, Payload: a})
			}
			if progress != nil {
				progress(a, resolved, total)
			}
		})
		if err != nil && p.notify != nil {
			p.notify.Push(event.Event{Type: event.TypeAssetBatchFailed, Payload: err})
		}
	})
}

// ServicePoint is the kernel's per-frame hook: with autoload enabled it
// kicks the coalesced batch accumulated during the turn
func (p *Pipeline) ServicePoint(ctx context.Context) {
	if p.autoload {
		p.FlushAsync(ctx)
	}
}

// Loading reports whether an async batch is in flight
func (p *Pipeline) Loading() bool {
	return p.inflight.Load()
}

// result reads the result table
func (p *Pipeline) result(id ID) (any, bool) {
	p.resMu.RLock()
	defer p.resMu.RUnlock()
	v, ok := p.results[id]
	return v, ok
}

func (p *Pipeline) resolved(id ID) bool {
	p.resMu.RLock()
	defer p.resMu.RUnlock()
	_, ok := p.results[id]
	return ok
}

func (p *Pipeline) clearEnqueued(id ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.enqueued, id)
}

// abandon clears the enqueued marks of an aborted batch tail so the
// assets can be re-requested
func (p *Pipeline) abandon(tail []*Asset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range tail {
		delete(p.enqueued, a.ID)
	}
}
