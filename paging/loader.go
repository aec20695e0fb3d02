package paging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/phillip/trust-manager-go/apperr"
)

var (
	// ErrBusy is returned by More while another More is in flight.
	ErrBusy = errors.New("load already in progress")
	// ErrStale is returned when a newer Reset superseded the call; the
	// response was discarded.
	ErrStale = errors.New("response superseded by a newer listing")
)

// Loader drives one accumulated list. Strict surfaces ErrInvalidCursor to
// the caller; otherwise a bad cursor restarts the listing from its first page.
type Loader[T any] struct {
	fetcher  *Fetcher[T]
	id       func(T) string
	pageSize int
	Strict   bool

	busy atomic.Bool
	mu   sync.Mutex
	gen  uint64
}

func NewLoader[T any](f *Fetcher[T], id func(T) string, pageSize int) *Loader[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Loader[T]{fetcher: f, id: id, pageSize: pageSize}
}

func (l *Loader[T]) bump() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

func (l *Loader[T]) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen == gen
}

// Reset starts a new listing in mode and returns its first page as a fresh
// state. Any load still in flight for an earlier listing becomes stale.
func (l *Loader[T]) Reset(ctx context.Context, mode Mode) (State[T], error) {
	gen := l.bump()
	page, err := l.fetcher.Fetch(ctx, mode, nil, l.pageSize)
	if err != nil {
		return State[T]{Mode: mode}, err
	}
	if !l.current(gen) {
		return State[T]{Mode: mode}, ErrStale
	}
	return State[T]{Mode: mode}.Apply(page, true, l.id), nil
}

// More appends the next page to st. On any error st is returned unchanged.
func (l *Loader[T]) More(ctx context.Context, st State[T]) (State[T], error) {
	if !st.HasMore || st.Next == nil {
		return st, nil
	}
	if !l.busy.CompareAndSwap(false, true) {
		return st, ErrBusy
	}
	defer l.busy.Store(false)

	l.mu.Lock()
	gen := l.gen
	l.mu.Unlock()

	page, err := l.fetcher.Fetch(ctx, st.Mode, st.Next, l.pageSize)
	if errors.Is(err, apperr.ErrInvalidCursor) && !l.Strict {
		page, err = l.fetcher.Fetch(ctx, st.Mode, nil, l.pageSize)
		if err == nil && l.current(gen) {
			return State[T]{Mode: st.Mode}.Apply(page, true, l.id), nil
		}
	}
	if err != nil {
		return st, err
	}
	if !l.current(gen) {
		return st, ErrStale
	}
	return st.Apply(page, false, l.id), nil
}

// Drain reads every page of mode and returns the accumulated state.
func (l *Loader[T]) Drain(ctx context.Context, mode Mode) (State[T], error) {
	st, err := l.Reset(ctx, mode)
	if err != nil {
		return st, err
	}
	for st.HasMore {
		st, err = l.More(ctx, st)
		if err != nil {
			return st, err
		}
	}
	return st, nil
}
