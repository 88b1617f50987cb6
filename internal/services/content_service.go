package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/repository"
)

var (
	ErrEmptyText       = apperr.InvalidInput("Text cannot be empty")
	ErrContentNotFound = apperr.NotFound("Content not found")
)

type ContentStore interface {
	Create(ctx context.Context, content *models.Content) error
	UpdateAnalysis(ctx context.Context, id uint, summary, sentiment string) error
	ListByOwner(ctx context.Context, ownerID uint) ([]models.ContentItem, error)
	GetByOwner(ctx context.Context, id, ownerID uint) (*models.Content, error)
	DeleteByOwner(ctx context.Context, id, ownerID uint) error
}

type Analyzer interface {
	Analyze(ctx context.Context, text string) (analysis.Result, error)
}

// ContentCache is the advisory per-owner list cache. A nil ContentCache
// disables caching.
type ContentCache interface {
	Get(ctx context.Context, ownerID uint) ([]models.ContentItem, bool, error)
	Set(ctx context.Context, ownerID uint, items []models.ContentItem) error
	Invalidate(ctx context.Context, ownerID uint) error
}

type ContentService struct {
	store    ContentStore
	analyzer Analyzer
	cache    ContentCache
}

func NewContentService(store ContentStore, analyzer Analyzer, cache ContentCache) *ContentService {
	return &ContentService{store: store, analyzer: analyzer, cache: cache}
}

// Create stores text for owner, enriches it with a summary and sentiment and
// returns the patched row. When analysis fails the placeholder row stays
// persisted with NULL enrichment and the analysis error is returned.
func (s *ContentService) Create(ctx context.Context, ownerID uint, text string) (*models.Content, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	content := &models.Content{UserID: ownerID, Text: text}
	if err := s.store.Create(ctx, content); err != nil {
		return nil, internalError("create_content", ownerID, "Internal server error", err)
	}
	defer s.invalidate(context.WithoutCancel(ctx), ownerID)

	res, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		slog.Warn("content left without analysis", "operation", "create_content", "user_id", ownerID, "content_id", content.ID, "error", err)
		return nil, err
	}

	if err := s.store.UpdateAnalysis(ctx, content.ID, res.Summary, res.Sentiment); err != nil {
		return nil, internalError("create_content", ownerID, "Internal server error", err)
	}
	content.Summary = &res.Summary
	content.Sentiment = &res.Sentiment

	slog.Info("content created", "operation", "create_content", "user_id", ownerID, "content_id", content.ID, "sentiment", res.Sentiment)
	return content, nil
}

// List returns the owner's {id, text} pairs, served from the cache when it
// holds them. Cache failures only cost a store round trip.
func (s *ContentService) List(ctx context.Context, ownerID uint) ([]models.ContentItem, error) {
	if s.cache != nil {
		items, hit, err := s.cache.Get(ctx, ownerID)
		switch {
		case err != nil:
			metrics.IncrementCacheEvent("get", "error")
			slog.Warn("content cache read failed", "operation", "list_contents", "user_id", ownerID, "error", err)
		case hit:
			metrics.IncrementCacheEvent("get", "hit")
			return items, nil
		default:
			metrics.IncrementCacheEvent("get", "miss")
		}
	}

	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, internalError("list_contents", ownerID, "Error fetching contents", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, items); err != nil {
			metrics.IncrementCacheEvent("set", "error")
			slog.Warn("content cache write failed", "operation", "list_contents", "user_id", ownerID, "error", err)
		} else {
			metrics.IncrementCacheEvent("set", "ok")
		}
	}
	return items, nil
}

// Get returns one content row. Rows owned by someone else are reported as
// missing.
func (s *ContentService) Get(ctx context.Context, id, ownerID uint) (*models.Content, error) {
	content, err := s.store.GetByOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, internalError("get_content", ownerID, "Error fetching content", err)
	}
	return content, nil
}

func (s *ContentService) Delete(ctx context.Context, id, ownerID uint) error {
	if err := s.store.DeleteByOwner(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrContentNotFound
		}
		return internalError("delete_content", ownerID, "Error deleting content", err)
	}
	s.invalidate(context.WithoutCancel(ctx), ownerID)

	slog.Info("content deleted", "operation", "delete_content", "user_id", ownerID, "content_id", id)
	return nil
}

// Analyze runs the analysis on trimmed text without persisting anything.
func (s *ContentService) Analyze(ctx context.Context, text string) (analysis.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return analysis.Result{}, ErrEmptyText
	}
	return s.analyzer.Analyze(ctx, text)
}

func (s *ContentService) invalidate(ctx context.Context, ownerID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		metrics.IncrementCacheEvent("invalidate", "error")
		slog.Warn("content cache invalidation failed", "user_id", ownerID, "error", err)
		return
	}
	metrics.IncrementCacheEvent("invalidate", "ok")
}
