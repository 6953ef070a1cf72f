package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gogotex/docstore/internal/document"
	"github.com/gogotex/docstore/internal/document/repository"
	"github.com/gogotex/docstore/pkg/logger"
	"github.com/gogotex/docstore/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrExportDisabled = errors.New("export storage not configured")
)

const exportURLTTL = 15 * time.Minute

// Service defines the document operations used by the handler layer and the CLI.
type Service interface {
	Save(ctx context.Context, d document.Document) (document.Document, error)
	Search(ctx context.Context, req document.SearchRequest) ([]document.Document, error)
	// FindByID returns (nil, nil) when no document has the given id.
	FindByID(ctx context.Context, id string) (*document.Document, error)
	Export(ctx context.Context, req document.SearchRequest) (*ExportResult, error)
}

// ObjectStore is the subset of the MinIO wrapper Export needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ExportResult describes an uploaded search snapshot.
type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Count int    `json:"count"`
}

type exportBody struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Request     document.SearchRequest `json:"request"`
	Count       int                    `json:"count"`
	Documents   []document.Document    `json:"documents"`
}

type Option func(*docService)

// WithExporter enables Export through the given object store.
func WithExporter(s ObjectStore) Option {
	return func(d *docService) { d.objects = s }
}

// New returns a Service over any repository.
func New(repo repository.Repository, opts ...Option) Service {
	s := &docService{repo: repo}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(opts ...Option) Service {
	return New(repository.NewMemoryRepo(), opts...)
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(ctx context.Context, col *mongo.Collection, opts ...Option) Service {
	return New(repository.NewMongoRepo(ctx, col), opts...)
}

// NewRedisService returns a Service storing documents under prefix in Redis.
func NewRedisService(client *redis.Client, prefix string, opts ...Option) Service {
	return New(repository.NewRedisRepo(client, prefix), opts...)
}

type docService struct {
	repo    repository.Repository
	objects ObjectStore
}

func (s *docService) Save(ctx context.Context, d document.Document) (document.Document, error) {
	outcome := "given_id"
	if d.ID == "" {
		outcome = "created_id"
	}
	saved, err := s.repo.Save(ctx, d)
	if err != nil {
		metrics.DocumentsSaved.WithLabelValues("error").Inc()
		logger.Errorw("document save failed", "id", d.ID, "err", err)
		return document.Document{}, err
	}
	metrics.DocumentsSaved.WithLabelValues(outcome).Inc()
	logger.Debugw("document saved", "id", saved.ID, "outcome", outcome)
	return saved, nil
}

func (s *docService) Search(ctx context.Context, req document.SearchRequest) ([]document.Document, error) {
	docs, err := s.repo.Search(ctx, req)
	if err != nil {
		metrics.Searches.WithLabelValues("error").Inc()
		logger.Errorw("document search failed", "err", err)
		return nil, err
	}
	metrics.Searches.WithLabelValues("ok").Inc()
	metrics.SearchResults.Observe(float64(len(docs)))
	logger.Debugw("document search", "results", len(docs), "unfiltered", req.IsEmpty())
	return docs, nil
}

func (s *docService) FindByID(ctx context.Context, id string) (*document.Document, error) {
	d, err := s.repo.FindByID(ctx, id)
	switch {
	case err != nil:
		metrics.Lookups.WithLabelValues("error").Inc()
		logger.Errorw("document lookup failed", "id", id, "err", err)
		return nil, err
	case d == nil:
		metrics.Lookups.WithLabelValues("miss").Inc()
	default:
		metrics.Lookups.WithLabelValues("hit").Inc()
	}
	return d, nil
}

// Export runs req and uploads the matches as a JSON object, returning a
// short-lived download URL.
func (s *docService) Export(ctx context.Context, req document.SearchRequest) (*ExportResult, error) {
	if s.objects == nil {
		return nil, ErrExportDisabled
	}
	docs, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(exportBody{GeneratedAt: time.Now().UTC(), Request: req, Count: len(docs), Documents: docs})
	if err != nil {
		metrics.Exports.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("encode export: %w", err)
	}
	key := fmt.Sprintf("exports/%s.json", repository.NewID())
	if err := s.objects.UploadFile(ctx, key, bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		metrics.Exports.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("upload export %s: %w", key, err)
	}
	url, err := s.objects.GetPresignedURL(ctx, key, exportURLTTL)
	if err != nil {
		metrics.Exports.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("presign export %s: %w", key, err)
	}
	metrics.Exports.WithLabelValues("ok").Inc()
	logger.Infow("search exported", "key", key, "count", len(docs))
	return &ExportResult{Key: key, URL: url, Count: len(docs)}, nil
}
