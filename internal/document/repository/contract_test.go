package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gogotex/docstore/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type forest struct {
	now              time.Time
	oak, pine, wood  document.Document
	author1, author2 *document.Author
}

// seedForest saves the three-document fixture used across backends.
func seedForest(t *testing.T, r Repository) forest {
	t.Helper()
	ctx := context.Background()
	f := forest{
		now:     time.Now().UTC(),
		author1: &document.Author{ID: "auth1", Name: "John Doe"},
		author2: &document.Author{ID: "auth2", Name: "Jane Smith"},
	}
	var err error
	f.oak, err = r.Save(ctx, document.Document{
		Title:   "Oak Tree Facts",
		Content: "A sturdy tree with broad leaves and strong wood",
		Author:  f.author1,
		Created: ptr(f.now.Add(-7200 * time.Second)),
	})
	require.NoError(t, err)
	f.pine, err = r.Save(ctx, document.Document{
		Title:   "Pine Tree Guide",
		Content: "Evergreen tree with needle-like leaves",
		Author:  f.author2,
		Created: ptr(f.now.Add(-3600 * time.Second)),
	})
	require.NoError(t, err)
	f.wood, err = r.Save(ctx, document.Document{
		Title:   "Oak Woodland",
		Content: "Forests dominated by oak trees",
		Author:  f.author1,
		Created: ptr(f.now),
	})
	require.NoError(t, err)
	return f
}

func titles(docs []document.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Title)
	}
	return out
}

// runContract exercises the behaviour every Repository must share.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("save generates distinct ids", func(t *testing.T) {
		r := newRepo(t)
		seen := map[string]bool{}
		for i := 0; i < 50; i++ {
			d, err := r.Save(ctx, document.Document{Title: "Maple Tree Notes"})
			require.NoError(t, err)
			require.NotEmpty(t, d.ID)
			require.False(t, seen[d.ID], "duplicate id %s", d.ID)
			seen[d.ID] = true
		}
	})

	t.Run("save keeps given id and created", func(t *testing.T) {
		r := newRepo(t)
		created := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		d, err := r.Save(ctx, document.Document{ID: "fixed", Title: "t", Created: &created})
		require.NoError(t, err)
		require.Equal(t, "fixed", d.ID)
		require.NotNil(t, d.Created)
		require.True(t, created.Equal(*d.Created))

		noCreated, err := r.Save(ctx, document.Document{Title: "no date"})
		require.NoError(t, err)
		require.Nil(t, noCreated.Created, "store must not stamp its own clock")
	})

	t.Run("save upserts by id", func(t *testing.T) {
		r := newRepo(t)
		_, err := r.Save(ctx, document.Document{ID: "same", Title: "first"})
		require.NoError(t, err)
		_, err = r.Save(ctx, document.Document{ID: "same", Title: "second", Content: "body"})
		require.NoError(t, err)

		all, err := r.Search(ctx, document.SearchRequest{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, "second", all[0].Title)
		require.Equal(t, "body", all[0].Content)
	})

	t.Run("find by id round trip", func(t *testing.T) {
		r := newRepo(t)
		f := seedForest(t, r)
		got, err := r.FindByID(ctx, f.oak.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, f.oak.Title, got.Title)
		require.Equal(t, f.oak.Content, got.Content)
		require.Equal(t, *f.oak.Author, *got.Author)
		require.True(t, f.oak.Created.Equal(*got.Created))
	})

	t.Run("find by id miss", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		for _, id := range []string{"non-existing-id", ""} {
			got, err := r.FindByID(ctx, id)
			require.NoError(t, err)
			require.Nil(t, got)
		}
	})

	t.Run("search by title prefix", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{TitlePrefixes: []string{"Oak"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Oak Tree Facts", "Oak Woodland"}, titles(got))
	})

	t.Run("search by author", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{AuthorIDs: []string{"auth1"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Oak Tree Facts", "Oak Woodland"}, titles(got))
	})

	t.Run("search by created range", func(t *testing.T) {
		r := newRepo(t)
		f := seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{
			CreatedFrom: ptr(f.now.Add(-5000 * time.Second)),
			CreatedTo:   ptr(f.now.Add(1000 * time.Second)),
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Pine Tree Guide", "Oak Woodland"}, titles(got))
	})

	t.Run("search with empty request returns everything", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("search by content", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{ContainsContents: []string{"leaves"}})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Oak Tree Facts", "Pine Tree Guide"}, titles(got))
	})

	t.Run("search with multiple criteria", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{
			TitlePrefixes:    []string{"Oak"},
			ContainsContents: []string{"tree"},
			AuthorIDs:        []string{"auth1"},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Oak Tree Facts", "Oak Woodland"}, titles(got))
	})

	t.Run("search without matches is empty not nil", func(t *testing.T) {
		r := newRepo(t)
		seedForest(t, r)
		got, err := r.Search(ctx, document.SearchRequest{AuthorIDs: []string{"nobody"}})
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})
}
