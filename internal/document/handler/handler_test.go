package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/docstore/internal/document"
	"github.com/gogotex/docstore/internal/document/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func setup(t *testing.T, opts ...service.Option) (*gin.Engine, service.Service, time.Time) {
	t.Helper()
	g := gin.New()
	svc := service.NewMemoryService(opts...)
	RegisterDocumentRoutes(g, svc)

	now := time.Now().UTC().Truncate(time.Second)
	seed := []document.Document{
		{Title: "Oak Tree Facts", Content: "A sturdy tree with broad leaves and strong wood", Author: &document.Author{ID: "auth1", Name: "John Doe"}, Created: ptr(now.Add(-7200 * time.Second))},
		{Title: "Pine Tree Guide", Content: "Evergreen tree with needle-like leaves", Author: &document.Author{ID: "auth2", Name: "Jane Smith"}, Created: ptr(now.Add(-3600 * time.Second))},
		{Title: "Oak Woodland", Content: "Forests dominated by oak trees", Author: &document.Author{ID: "auth1", Name: "John Doe"}, Created: ptr(now)},
	}
	for _, d := range seed {
		_, err := svc.Save(context.Background(), d)
		require.NoError(t, err)
	}
	return g, svc, now
}

func ptr[T any](v T) *T { return &v }

func do(g *gin.Engine, method, target string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	g.ServeHTTP(w, req)
	return w
}

func decodeDocs(t *testing.T, w *httptest.ResponseRecorder) []document.Document {
	t.Helper()
	var docs []document.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	return docs
}

func TestDocumentHandler_SaveAndFind(t *testing.T) {
	g, _, _ := setup(t)

	w := do(g, http.MethodPost, "/api/documents", strings.NewReader(`{"title":"Maple Tree Notes","content":"Known for vibrant autumn colors"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var saved document.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.ID)
	require.Nil(t, saved.Created)

	w = do(g, http.MethodGet, "/api/documents/"+saved.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got document.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, saved, got)

	w = do(g, http.MethodGet, "/api/documents/non-existing-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDocumentHandler_PutUpserts(t *testing.T) {
	g, svc, _ := setup(t)

	w := do(g, http.MethodPut, "/api/documents/fixed", strings.NewReader(`{"title":"first"}`))
	require.Equal(t, http.StatusOK, w.Code)
	w = do(g, http.MethodPut, "/api/documents/fixed", strings.NewReader(`{"id":"fixed","title":"second"}`))
	require.Equal(t, http.StatusOK, w.Code)

	d, err := svc.FindByID(context.Background(), "fixed")
	require.NoError(t, err)
	require.Equal(t, "second", d.Title)

	w = do(g, http.MethodPut, "/api/documents/fixed", strings.NewReader(`{"id":"other","title":"x"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodPost, "/api/documents", strings.NewReader(`{not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_SearchBody(t *testing.T) {
	g, _, now := setup(t)

	w := do(g, http.MethodPost, "/api/documents/search", strings.NewReader(`{"titlePrefixes":["Oak"],"containsContents":["tree"],"authorIds":["auth1"]}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeDocs(t, w), 2)

	body, err := json.Marshal(document.SearchRequest{CreatedFrom: ptr(now.Add(-5000 * time.Second)), CreatedTo: ptr(now.Add(1000 * time.Second))})
	require.NoError(t, err)
	w = do(g, http.MethodPost, "/api/documents/search", strings.NewReader(string(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeDocs(t, w), 2)

	// no body -> every document
	w = do(g, http.MethodPost, "/api/documents/search", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeDocs(t, w), 3)
}

func TestDocumentHandler_SearchBodyChunkedEmpty(t *testing.T) {
	g, _, _ := setup(t)

	// chunked upload: no declared length and nothing to read
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents/search", strings.NewReader(""))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeDocs(t, w), 3)

	// a truncated body is still rejected
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/documents/search", strings.NewReader(`{"titlePrefixes":`))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_SearchQuery(t *testing.T) {
	g, _, now := setup(t)

	w := do(g, http.MethodGet, "/api/documents?contains=leaves", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeDocs(t, w), 2)

	w = do(g, http.MethodGet, "/api/documents?authorId=auth2&authorId=auth1&titlePrefix=Pine", nil)
	require.Equal(t, http.StatusOK, w.Code)
	docs := decodeDocs(t, w)
	require.Len(t, docs, 1)
	assert.Equal(t, "Pine Tree Guide", docs[0].Title)

	q := url.Values{}
	q.Set("createdFrom", now.Add(-5000*time.Second).Format(time.RFC3339))
	q.Set("createdTo", now.Add(1000*time.Second).Format(time.RFC3339))
	w = do(g, http.MethodGet, "/api/documents?"+q.Encode(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeDocs(t, w), 2)

	w = do(g, http.MethodGet, "/api/documents?authorId=nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = do(g, http.MethodGet, "/api/documents?createdFrom=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentHandler_ExportDisabled(t *testing.T) {
	g, _, _ := setup(t)
	w := do(g, http.MethodPost, "/api/documents/export", strings.NewReader(`{"titlePrefixes":["Oak"]}`))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type memObjects struct{ keys []string }

func (m *memObjects) UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	m.keys = append(m.keys, key)
	return nil
}

func (m *memObjects) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "http://objects/" + key, nil
}

func TestDocumentHandler_Export(t *testing.T) {
	objs := &memObjects{}
	g, _, _ := setup(t, service.WithExporter(objs))
	w := do(g, http.MethodPost, "/api/documents/export", strings.NewReader(`{"titlePrefixes":["Oak"]}`))
	require.Equal(t, http.StatusOK, w.Code)

	var res service.ExportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	require.Len(t, objs.keys, 1)
	assert.Equal(t, objs.keys[0], res.Key)
}
