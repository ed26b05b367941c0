package client

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookQuery_Fetch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.MarshalWrite(w, BookList{
			Books: []Book{{ID: "book-1", Title: "Dune"}},
			Total: 1, TotalPages: 1, CurrentPage: 1,
		}))
	})

	q := NewBookQuery(c, ListParams{}, nil)
	assert.True(t, q.Snapshot().Loading)

	snap, err := q.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Loading)
	require.Len(t, snap.Books(), 1)
	assert.Equal(t, "Dune", snap.Books()[0].Title)
}

func TestBookQuery_ErrorKeepsPreviousData(t *testing.T) {
	fail := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			require.NoError(t, json.MarshalWrite(w, map[string]string{"error": "Server error"}))
			return
		}
		require.NoError(t, json.MarshalWrite(w, BookList{
			Books: []Book{{ID: "book-1", Title: "Dune"}}, Total: 1,
		}))
	})

	q := NewBookQuery(c, ListParams{}, nil)
	_, err := q.Fetch(context.Background())
	require.NoError(t, err)

	fail = true
	snap, err := q.Fetch(context.Background())
	require.Error(t, err)
	assert.Error(t, snap.Err)
	require.NotNil(t, snap.Data, "previous page should survive a failed reload")
	assert.Equal(t, "Dune", snap.Books()[0].Title)
}

func TestBookQuery_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	slowDone := make(chan struct{})

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "slow" {
			<-release
			require.NoError(t, json.MarshalWrite(w, BookList{
				Books: []Book{{ID: "book-slow", Title: "Stale"}}, Total: 1,
			}))
			close(slowDone)
			return
		}
		require.NoError(t, json.MarshalWrite(w, BookList{
			Books: []Book{{ID: "book-fast", Title: "Fresh"}}, Total: 1,
		}))
	})

	snapshots := make(chan Snapshot, 16)
	q := NewBookQuery(c, ListParams{Search: "slow"}, func(s Snapshot) {
		snapshots <- s
	})

	// Start the slow fetch, then supersede it before it completes.
	q.Refetch(context.Background())
	q.SetParams(context.Background(), ListParams{Search: "fast"})

	// Wait for the fast result to land.
	deadline := time.After(5 * time.Second)
	for {
		var snap Snapshot
		select {
		case snap = <-snapshots:
		case <-deadline:
			t.Fatal("timed out waiting for fast result")
		}
		if !snap.Loading && snap.Data != nil {
			require.Len(t, snap.Books(), 1)
			assert.Equal(t, "Fresh", snap.Books()[0].Title)
			break
		}
	}

	// Let the superseded request finish; its result must be discarded.
	close(release)
	<-slowDone
	time.Sleep(50 * time.Millisecond)

	snap := q.Snapshot()
	require.NotNil(t, snap.Data)
	assert.Equal(t, "Fresh", snap.Books()[0].Title)

	select {
	case extra := <-snapshots:
		t.Fatalf("stale snapshot must not be published, got %+v", extra)
	default:
	}
}

func TestBookQuery_SetParamsReplacesParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.MarshalWrite(w, BookList{Books: []Book{}}))
	})

	q := NewBookQuery(c, ListParams{Page: 1}, nil)
	q.SetParams(context.Background(), ListParams{Page: 3, Genre: "fiction"})

	params := q.Params()
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, "fiction", params.Genre)
}

func TestSnapshot_BooksIsNilSafe(t *testing.T) {
	snap := Snapshot{Loading: true}
	assert.NotNil(t, snap.Books())
	assert.Empty(t, snap.Books())
}
