package client

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookForm_SubmitCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/books", r.URL.Path)

		var input BookInput
		require.NoError(t, json.UnmarshalRead(r.Body, &input))
		assert.Equal(t, "Dune", input.Title)
		assert.Equal(t, "Frank Herbert", input.Author)

		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.MarshalWrite(w, Book{ID: "book-1", Title: input.Title, Author: input.Author}))
	})

	form := NewBookForm(c)
	form.SetTitle("Dune")
	form.SetAuthor("Frank Herbert")

	book, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "book-1", book.ID)
	assert.Empty(t, form.GeneralError())
}

func TestBookForm_SubmitEditSendsFullPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/books/book-1", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.UnmarshalRead(r.Body, &payload))
		assert.Equal(t, "Dune", payload["title"])
		assert.Contains(t, payload, "genre", "cleared field must be sent explicitly")
		assert.Equal(t, "", payload["genre"])

		require.NoError(t, json.MarshalWrite(w, Book{ID: "book-1", Title: "Dune"}))
	})

	existing := &Book{ID: "book-1", Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction"}
	form := NewEditForm(c, existing)
	assert.Equal(t, "Science Fiction", form.Input().Genre)

	form.SetGenre("")
	_, err := form.Submit(context.Background())
	require.NoError(t, err)
}

func TestBookForm_StructuredDetailsMapToFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		require.NoError(t, json.MarshalWrite(w, errorBody{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "title", Message: "Title is required"},
				{Field: "author", Message: "Author is required"},
			},
		}))
	})

	form := NewBookForm(c)
	_, err := form.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Title is required", form.FieldError(FieldTitle))
	assert.Equal(t, "Author is required", form.FieldError(FieldAuthor))
	assert.Empty(t, form.FieldError(FieldGenre))
	assert.Empty(t, form.GeneralError())
}

func TestBookForm_FirstDetailPerFieldWins(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		require.NoError(t, json.MarshalWrite(w, errorBody{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "title", Message: "Title is required"},
				{Field: "title", Message: "Title cannot be more than 200 characters"},
			},
		}))
	})

	form := NewBookForm(c)
	_, err := form.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Title is required", form.FieldError(FieldTitle))
}

func TestBookForm_KeywordFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		require.NoError(t, json.MarshalWrite(w, map[string]string{
			"error": "A book with this ISBN already exists",
		}))
	})

	form := NewBookForm(c)
	form.SetTitle("Dune")
	form.SetAuthor("Frank Herbert")
	form.SetISBN("9780441172719")

	_, err := form.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "A book with this ISBN already exists", form.FieldError(FieldISBN))
	assert.Empty(t, form.GeneralError())
}

func TestBookForm_UnmatchedMessageGoesToGeneral(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		require.NoError(t, json.MarshalWrite(w, map[string]string{"error": "Server error"}))
	})

	form := NewBookForm(c)
	_, err := form.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Server error", form.GeneralError())
	assert.Empty(t, form.FieldError(FieldTitle))
}

func TestBookForm_EditingFieldClearsItsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		require.NoError(t, json.MarshalWrite(w, errorBody{
			Error: "Validation failed",
			Details: []FieldError{
				{Field: "title", Message: "Title is required"},
				{Field: "author", Message: "Author is required"},
			},
		}))
	})

	form := NewBookForm(c)
	_, err := form.Submit(context.Background())
	require.Error(t, err)
	require.NotEmpty(t, form.FieldError(FieldTitle))

	form.SetTitle("Dune")
	assert.Empty(t, form.FieldError(FieldTitle))
	assert.Equal(t, "Author is required", form.FieldError(FieldAuthor), "other errors stay put")
}

func TestBookForm_ResubmitClearsOldErrors(t *testing.T) {
	fail := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			require.NoError(t, json.MarshalWrite(w, errorBody{
				Error:   "Validation failed",
				Details: []FieldError{{Field: "title", Message: "Title is required"}},
			}))
			return
		}
		w.WriteHeader(http.StatusCreated)
		require.NoError(t, json.MarshalWrite(w, Book{ID: "book-1"}))
	})

	form := NewBookForm(c)
	_, err := form.Submit(context.Background())
	require.Error(t, err)

	fail = false
	form.SetTitle("Dune")
	form.SetAuthor("Frank Herbert")
	_, err = form.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, form.FieldError(FieldTitle))
	assert.Empty(t, form.GeneralError())
}

func TestBookForm_SettersUpdateInput(t *testing.T) {
	form := NewBookForm(New(Options{BaseURL: "http://localhost:8080/api"}))
	form.SetTitle("Dune")
	form.SetPublishedYear(intPtr(1965))
	form.SetPages(intPtr(412))
	form.SetPublisher("Chilton Books")

	in := form.Input()
	assert.Equal(t, "Dune", in.Title)
	require.NotNil(t, in.PublishedYear)
	assert.Equal(t, 1965, *in.PublishedYear)
	require.NotNil(t, in.Pages)
	assert.Equal(t, 412, *in.Pages)
	assert.Equal(t, "Chilton Books", in.Publisher)
}
