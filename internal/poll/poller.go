// Package poll keeps client views in sync with the engine by periodic re-fetch.
// There is no push channel; a view converges within one interval of a change.
package poll

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrAlreadyStarted = errors.New("poller already started")

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller runs fetch immediately and then every interval. Fetches may overlap;
// a response is delivered only if it was requested after the last delivered one,
// so a slow stale response never overwrites a newer view.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	deliver  func(T)
	onError  func(error)

	mu        sync.Mutex
	issued    uint64
	delivered uint64
	cancel    context.CancelFunc
	trigger   chan struct{}
	wg        sync.WaitGroup
}

type Option[T any] func(*Poller[T])

// WithErrorHandler is called for failed fetches that are still current.
func WithErrorHandler[T any](fn func(error)) Option[T] {
	return func(p *Poller[T]) { p.onError = fn }
}

func WithName[T any](name string) Option[T] {
	return func(p *Poller[T]) { p.name = name }
}

// New builds a poller. deliver is called serially and must not call Stop.
func New[T any](interval time.Duration, fetch FetchFunc[T], deliver func(T), opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		name:     "poller",
		interval: interval,
		fetch:    fetch,
		deliver:  deliver,
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.onError == nil {
		p.onError = func(err error) {
			slog.Warn("poll fetch failed", "poller", p.name, "error", err)
		}
	}
	return p
}

func (p *Poller[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(ctx)
	return nil
}

// Refresh requests an out-of-band fetch, e.g. right after the caller changed state.
func (p *Poller[T]) Refresh() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels in-flight fetches and waits for them to return.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()
}

func (p *Poller[T]) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.launch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.launch(ctx)
		case <-p.trigger:
			p.launch(ctx)
		}
	}
}

func (p *Poller[T]) launch(ctx context.Context) {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		result, err := p.fetch(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()
		if ctx.Err() != nil || seq <= p.delivered {
			return
		}
		if err != nil {
			p.onError(err)
			return
		}
		p.delivered = seq
		p.deliver(result)
	}()
}
