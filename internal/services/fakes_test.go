package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/analysis"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/repository"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]*models.User
	err    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*models.User{}}
}

func (m *memUserStore) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

type stubIssuer struct{ err error }

func (s stubIssuer) Issue(id uint, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + email, nil
}

type memContentStore struct {
	mu        sync.Mutex
	nextID    uint
	rows      map[uint]*models.Content
	listCalls int
	err       error
	updateErr error
}

func newMemContentStore() *memContentStore {
	return &memContentStore{rows: map[uint]*models.Content{}}
}

func (m *memContentStore) Create(_ context.Context, c *models.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memContentStore) UpdateAnalysis(_ context.Context, id uint, summary, sentiment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.Summary = &summary
	row.Sentiment = &sentiment
	return nil
}

func (m *memContentStore) ListByOwner(_ context.Context, owner uint) ([]models.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	items := []models.ContentItem{}
	for _, r := range m.rows {
		if r.UserID == owner {
			items = append(items, models.ContentItem{ID: r.ID, Text: r.Text})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *memContentStore) GetByOwner(_ context.Context, id, owner uint) (*models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.rows[id]
	if !ok || r.UserID != owner {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memContentStore) DeleteByOwner(_ context.Context, id, owner uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r, ok := m.rows[id]
	if !ok || r.UserID != owner {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type stubAnalyzer struct {
	res   analysis.Result
	err   error
	calls int
	last  string
}

func (s *stubAnalyzer) Analyze(_ context.Context, text string) (analysis.Result, error) {
	s.calls++
	s.last = text
	return s.res, s.err
}

type memCache struct {
	mu          sync.Mutex
	entries     map[uint][]models.ContentItem
	err         error
	invalidated []uint
}

func newMemCache() *memCache {
	return &memCache{entries: map[uint][]models.ContentItem{}}
}

func (c *memCache) Get(_ context.Context, owner uint) ([]models.ContentItem, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	items, ok := c.entries[owner]
	return items, ok, nil
}

func (c *memCache) Set(_ context.Context, owner uint, items []models.ContentItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[owner] = items
	return nil
}

func (c *memCache) Invalidate(_ context.Context, owner uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, owner)
	if c.err != nil {
		return c.err
	}
	delete(c.entries, owner)
	return nil
}

var errBackend = errors.New("backend down")
