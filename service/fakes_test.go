package service

import (
	"context"
	"sync"
	"time"

	"caseviewer-backend/models"
	"caseviewer-backend/repository"

	"github.com/google/uuid"
)

type fakeSource struct {
	rows  [][]string
	err   error
	calls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Fetch(ctx context.Context) (*models.Sheet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.Sheet{Rows: f.rows, Source: "fake", FetchedAt: time.Now()}, nil
}

// blockingSource waits for the context to end
type blockingSource struct{}

func (blockingSource) Name() string { return "blocking" }

func (blockingSource) Fetch(ctx context.Context) (*models.Sheet, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memExportStore struct {
	mu        sync.Mutex
	exports   map[uuid.UUID]*models.Export
	createErr error
}

func newMemExportStore() *memExportStore {
	return &memExportStore{exports: make(map[uuid.UUID]*models.Export)}
}

func (m *memExportStore) Create(ctx context.Context, e *models.Export) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.CreatedAt = time.Now()
	cp := *e
	m.exports[e.ID] = &cp
	return nil
}

func (m *memExportStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memExportStore) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*models.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Export{}
	for _, e := range m.exports {
		if e.SessionID == sessionID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memPresetStore struct {
	mu      sync.Mutex
	presets map[uuid.UUID]*models.FilterPreset
}

func newMemPresetStore() *memPresetStore {
	return &memPresetStore{presets: make(map[uuid.UUID]*models.FilterPreset)}
}

func (m *memPresetStore) Save(ctx context.Context, p *models.FilterPreset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.presets {
		if existing.Name == p.Name {
			existing.Selection = p.Selection
			existing.UpdatedAt = time.Now()
			*p = *existing
			return nil
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.presets[p.ID] = &cp
	return nil
}

func (m *memPresetStore) GetByID(ctx context.Context, id uuid.UUID) (*models.FilterPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.presets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPresetStore) List(ctx context.Context) ([]*models.FilterPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.FilterPreset{}
	for _, p := range m.presets {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPresetStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.presets, id)
	return nil
}

var sampleRows = [][]string{
	{"Case Number", "Status", "Judgment Amount", "Judgment Date", "Court System", "Case Link"},
	{"1A", "Entered", "$50,000", "01/01/2020", "Circuit Court", "https://cases.test/1A"},
	{"1B", "Renewed", "$5,000", "01/01/2020", "District Court", "https://cases.test/1B"},
	{"1C", "Entered", "$12,000", "garbage", "District Court", ""},
}

var cleanRows = [][]string{
	{"Case Number", "Status", "Judgment Amount", "Entry Date", "Court System", "Case Link"},
	{"1A", "Entered", "$50,000", "01/01/2020", "Circuit Court", "https://cases.test/1A"},
	{"1B", "Renewed", "$5,000", "01/01/2020", "District Court", "https://cases.test/1B"},
	{"1C", "Entered", "$12,000", "garbage", "District Court", ""},
}
