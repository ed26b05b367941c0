package client

import (
	"context"
	"sync"
)

// Snapshot is the observable state of a BookQuery: loading, failed, or
// loaded with data. Exactly one of Err and Data is meaningful once Loading
// is false.
type Snapshot struct {
	Loading bool
	Err     error
	Data    *BookList
}

// Books returns the loaded page, or an empty slice while loading or after
// an error.
func (s Snapshot) Books() []Book {
	if s.Data == nil {
		return []Book{}
	}
	return s.Data.Books
}

// BookQuery is a live catalog listing. Changing the parameters or calling
// Refetch fetches in the background and publishes a new Snapshot; responses
// from superseded fetches are discarded, so a slow first request can never
// overwrite the result of a newer one.
type BookQuery struct {
	client   *Client
	onChange func(Snapshot)

	mu     sync.Mutex
	params ListParams
	seq    uint64
	snap   Snapshot
}

// NewBookQuery creates a query over the given client. onChange is invoked
// after every state transition (may be nil); it runs on the fetching
// goroutine, so it must not block.
func NewBookQuery(c *Client, params ListParams, onChange func(Snapshot)) *BookQuery {
	return &BookQuery{
		client:   c,
		onChange: onChange,
		params:   params,
		snap:     Snapshot{Loading: true},
	}
}

// Snapshot returns the current state.
func (q *BookQuery) Snapshot() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// Params returns the current query parameters.
func (q *BookQuery) Params() ListParams {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.params
}

// SetParams replaces the parameters and starts a fetch. Any in-flight fetch
// for the old parameters is superseded.
func (q *BookQuery) SetParams(ctx context.Context, params ListParams) {
	q.mu.Lock()
	q.params = params
	q.mu.Unlock()
	q.Refetch(ctx)
}

// Refetch reloads the current parameters in the background.
func (q *BookQuery) Refetch(ctx context.Context) {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	params := q.params
	q.snap = Snapshot{Loading: true, Data: q.snap.Data}
	snap := q.snap
	q.mu.Unlock()

	q.publish(snap)

	go func() {
		list, err := q.client.ListBooks(ctx, params)

		q.mu.Lock()
		if seq != q.seq {
			// A newer fetch started while this one was in flight.
			q.mu.Unlock()
			return
		}
		if err != nil {
			q.snap = Snapshot{Err: err, Data: q.snap.Data}
		} else {
			q.snap = Snapshot{Data: list}
		}
		snap := q.snap
		q.mu.Unlock()

		q.publish(snap)
	}()
}

// Fetch performs a synchronous load, bypassing the background machinery.
// It still participates in sequencing, so a concurrent Refetch supersedes it.
func (q *BookQuery) Fetch(ctx context.Context) (Snapshot, error) {
	q.mu.Lock()
	q.seq++
	seq := q.seq
	params := q.params
	q.mu.Unlock()

	list, err := q.client.ListBooks(ctx, params)

	q.mu.Lock()
	defer q.mu.Unlock()
	if seq != q.seq {
		return q.snap, nil
	}
	if err != nil {
		q.snap = Snapshot{Err: err, Data: q.snap.Data}
		return q.snap, err
	}
	q.snap = Snapshot{Data: list}
	return q.snap, nil
}

func (q *BookQuery) publish(snap Snapshot) {
	if q.onChange != nil {
		q.onChange(snap)
	}
}
