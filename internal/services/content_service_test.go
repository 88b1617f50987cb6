package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contentFixture struct {
	svc      *ContentService
	store    *memContentStore
	analyzer *stubAnalyzer
	cache    *memCache
}

func newContentFixture() *contentFixture {
	f := &contentFixture{
		store:    newMemContentStore(),
		analyzer: &stubAnalyzer{res: analysis.Result{Summary: "The author loves it.", Sentiment: "Positive"}},
		cache:    newMemCache(),
	}
	f.svc = NewContentService(f.store, f.analyzer, f.cache)
	return f
}

func TestCreate_Enriches(t *testing.T) {
	f := newContentFixture()

	content, err := f.svc.Create(context.Background(), 1, "I love this")
	require.NoError(t, err)

	require.NotNil(t, content.Summary)
	require.NotNil(t, content.Sentiment)
	assert.Equal(t, "The author loves it.", *content.Summary)
	assert.Equal(t, "Positive", *content.Sentiment)
	assert.Contains(t, []string{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral}, *content.Sentiment)

	stored := f.store.rows[content.ID]
	assert.Equal(t, "Positive", *stored.Sentiment)
	assert.Equal(t, uint(1), stored.UserID)
	assert.Equal(t, []uint{1}, f.cache.invalidated)
}

func TestCreate_EmptyText(t *testing.T) {
	f := newContentFixture()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := f.svc.Create(context.Background(), 1, text)
		assert.ErrorIs(t, err, ErrEmptyText)
		assert.Equal(t, 400, apperr.StatusOf(err))
	}
	assert.Empty(t, f.store.rows)
	assert.Zero(t, f.analyzer.calls)
}

func TestCreate_AnalysisFailureKeepsPlaceholder(t *testing.T) {
	f := newContentFixture()
	f.analyzer.err = analysis.ErrRateLimited

	_, err := f.svc.Create(context.Background(), 1, "I love this")
	assert.ErrorIs(t, err, analysis.ErrRateLimited)
	assert.Equal(t, 429, apperr.StatusOf(err))

	require.Len(t, f.store.rows, 1)
	for _, row := range f.store.rows {
		assert.Nil(t, row.Summary)
		assert.Nil(t, row.Sentiment)
	}
	assert.Equal(t, []uint{1}, f.cache.invalidated, "cache is dropped even when enrichment fails")
}

func TestCreate_StoreFailure(t *testing.T) {
	f := newContentFixture()
	f.store.err = errBackend

	_, err := f.svc.Create(context.Background(), 1, "text")
	assert.Equal(t, 500, apperr.StatusOf(err))
	assert.Zero(t, f.analyzer.calls)
}

func TestCreate_PatchFailure(t *testing.T) {
	f := newContentFixture()
	f.store.updateErr = errBackend

	_, err := f.svc.Create(context.Background(), 1, "text")
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, 500, apperr.StatusOf(err))
}

func TestCreate_CacheDownStillSucceeds(t *testing.T) {
	f := newContentFixture()
	f.cache.err = errBackend

	content, err := f.svc.Create(context.Background(), 1, "text")
	require.NoError(t, err)
	assert.NotZero(t, content.ID)
}

func TestList_ReadThrough(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	c, err := f.svc.Create(ctx, 1, "I love this")
	require.NoError(t, err)

	first, err := f.svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.ContentItem{{ID: c.ID, Text: "I love this"}}, first)
	assert.Equal(t, 1, f.store.listCalls)

	second, err := f.svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.store.listCalls, "warm cache skips the store")
}

func TestList_InvalidatedByWrites(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	a, err := f.svc.Create(ctx, 1, "first")
	require.NoError(t, err)
	_, err = f.svc.List(ctx, 1)
	require.NoError(t, err)

	b, err := f.svc.Create(ctx, 1, "second")
	require.NoError(t, err)

	items, err := f.svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.ContentItem{{ID: a.ID, Text: "first"}, {ID: b.ID, Text: "second"}}, items)

	require.NoError(t, f.svc.Delete(ctx, a.ID, 1))

	items, err = f.svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.ContentItem{{ID: b.ID, Text: "second"}}, items)
}

func TestList_CacheDown(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, 1, "text")
	require.NoError(t, err)
	f.cache.err = errBackend

	items, err := f.svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestList_NoCache(t *testing.T) {
	store := newMemContentStore()
	svc := NewContentService(store, &stubAnalyzer{res: analysis.Result{Sentiment: "Neutral"}}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "text")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		items, err := svc.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	}
	assert.Equal(t, 2, store.listCalls)
}

func TestList_Empty(t *testing.T) {
	f := newContentFixture()

	items, err := f.svc.List(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestList_StoreFailure(t *testing.T) {
	f := newContentFixture()
	f.store.err = errBackend

	_, err := f.svc.List(context.Background(), 1)
	assert.Equal(t, 500, apperr.StatusOf(err))
	assert.Equal(t, "Error fetching contents", apperr.DetailOf(err))
}

func TestGet_OwnerIsolation(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	c, err := f.svc.Create(ctx, 1, "mine")
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, c.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Text)

	_, err = f.svc.Get(ctx, c.ID, 2)
	assert.ErrorIs(t, err, ErrContentNotFound)
	assert.Equal(t, 404, apperr.StatusOf(err))

	_, err = f.svc.Get(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestDelete(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	c, err := f.svc.Create(ctx, 1, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, c.ID, 2), ErrContentNotFound, "other owners cannot delete")

	require.NoError(t, f.svc.Delete(ctx, c.ID, 1))
	_, err = f.svc.Get(ctx, c.ID, 1)
	assert.ErrorIs(t, err, ErrContentNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, c.ID, 1), ErrContentNotFound)
}

func TestDelete_StoreFailure(t *testing.T) {
	f := newContentFixture()
	f.store.err = errBackend

	err := f.svc.Delete(context.Background(), 1, 1)
	assert.Equal(t, "Error deleting content", apperr.DetailOf(err))
	assert.Empty(t, f.cache.invalidated)
}

func TestAnalyze(t *testing.T) {
	f := newContentFixture()

	res, err := f.svc.Analyze(context.Background(), "  I love this  ")
	require.NoError(t, err)
	assert.Equal(t, "Positive", res.Sentiment)
	assert.Equal(t, "I love this", f.analyzer.last)
	assert.Empty(t, f.store.rows)

	_, err = f.svc.Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestAnalyze_PropagatesTimeout(t *testing.T) {
	f := newContentFixture()
	f.analyzer.err = analysis.ErrTimeout

	_, err := f.svc.Analyze(context.Background(), "text")
	assert.Equal(t, 504, apperr.StatusOf(err))
}
