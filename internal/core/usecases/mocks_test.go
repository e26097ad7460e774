package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
)

// --- Mock GenerationService ---

type mockGenerator struct {
	generateFn func(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error)

	mu    sync.Mutex
	calls []ports.GenerationRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return &ports.GenerationResponse{}, nil
}

func (m *mockGenerator) lastCall() ports.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ports.GenerationRequest{}
	}
	return m.calls[len(m.calls)-1]
}

func replyWith(text string, citations ...domain.Citation) *mockGenerator {
	return &mockGenerator{generateFn: func(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
		return &ports.GenerationResponse{Text: text, Citations: citations}, nil
	}}
}

// --- Mock CredentialBroker ---

type mockCreds struct {
	active  bool
	err     error
	prompts int
}

func (m *mockCreds) HasActiveCredential(ctx context.Context) (bool, error) { return m.active, m.err }
func (m *mockCreds) PromptSelection(ctx context.Context) error {
	m.prompts++
	return nil
}

// --- Mock RouteHistoryRepository ---

type mockHistory struct {
	addFn   func(ctx context.Context, s *domain.RouteSummary, keep int) error
	entries []domain.RouteSummary
}

func (m *mockHistory) Add(ctx context.Context, s *domain.RouteSummary, keep int) error {
	if m.addFn != nil {
		return m.addFn(ctx, s, keep)
	}
	m.entries = append([]domain.RouteSummary{*s}, m.entries...)
	if len(m.entries) > keep {
		m.entries = m.entries[:keep]
	}
	return nil
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]domain.RouteSummary, error) {
	if limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

// --- Mock EventPublisher ---

type mockEvents struct {
	routes    []*domain.Route
	records   []*domain.LogbookEntry
	requested []*domain.AnalysisRequest
	ready     []*domain.MaintenanceAnalysis
	prompts   int
	err       error
}

func (m *mockEvents) PublishRoutePlanned(ctx context.Context, sessionID string, r *domain.Route) error {
	m.routes = append(m.routes, r)
	return m.err
}

func (m *mockEvents) PublishRecordSaved(ctx context.Context, bikeID string, e *domain.LogbookEntry) error {
	m.records = append(m.records, e)
	return m.err
}

func (m *mockEvents) PublishAnalysisRequested(ctx context.Context, r *domain.AnalysisRequest) error {
	m.requested = append(m.requested, r)
	return m.err
}

func (m *mockEvents) PublishAnalysisReady(ctx context.Context, a *domain.MaintenanceAnalysis) error {
	m.ready = append(m.ready, a)
	return m.err
}

func (m *mockEvents) PublishCredentialPrompt(ctx context.Context) error {
	m.prompts++
	return m.err
}

// --- Mock TimezoneService ---

type mockTZ struct {
	name string
	err  error
}

func (m mockTZ) GetTimezone(lat, lon float64) (string, error) { return m.name, m.err }

// --- Mock ChatRepository ---

type mockChats struct {
	msgs []domain.ChatMessage
}

func (m *mockChats) History(ctx context.Context) ([]domain.ChatMessage, error) { return m.msgs, nil }
func (m *mockChats) Append(ctx context.Context, msgs ...domain.ChatMessage) error {
	m.msgs = append(m.msgs, msgs...)
	return nil
}
func (m *mockChats) Reset(ctx context.Context, seed domain.ChatMessage) error {
	m.msgs = []domain.ChatMessage{seed}
	return nil
}

// --- Mock BikeRepository ---

type mockBikes struct {
	getByIDFn func(ctx context.Context, id string) (*domain.Motorcycle, error)
	bikes     map[string]*domain.Motorcycle
	gets      int
}

func newMockBikes(bikes ...domain.Motorcycle) *mockBikes {
	m := &mockBikes{bikes: map[string]*domain.Motorcycle{}}
	for i := range bikes {
		b := bikes[i]
		m.bikes[b.ID] = &b
	}
	return m
}

func (m *mockBikes) Create(ctx context.Context, b *domain.Motorcycle) error {
	c := *b
	m.bikes[b.ID] = &c
	return nil
}

func (m *mockBikes) Update(ctx context.Context, b *domain.Motorcycle) error {
	if _, ok := m.bikes[b.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *b
	m.bikes[b.ID] = &c
	return nil
}

func (m *mockBikes) Delete(ctx context.Context, id string) error {
	delete(m.bikes, id)
	return nil
}

func (m *mockBikes) GetByID(ctx context.Context, id string) (*domain.Motorcycle, error) {
	m.gets++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	b, ok := m.bikes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (m *mockBikes) List(ctx context.Context) ([]domain.Motorcycle, error) {
	out := make([]domain.Motorcycle, 0, len(m.bikes))
	for _, b := range m.bikes {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBikes) RaiseMileage(ctx context.Context, id string, mileage int) (bool, error) {
	b, ok := m.bikes[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if mileage <= b.Mileage {
		return false, nil
	}
	b.Mileage = mileage
	return true, nil
}

// --- Mock MaintenanceRepository ---

type mockRecords struct {
	recs []domain.MaintenanceRecord
}

func (m *mockRecords) Insert(ctx context.Context, r *domain.MaintenanceRecord) error {
	m.recs = append(m.recs, *r)
	return nil
}

func (m *mockRecords) ListByBike(ctx context.Context, bikeID string) ([]domain.MaintenanceRecord, error) {
	var out []domain.MaintenanceRecord
	for _, r := range m.recs {
		if r.BikeID == bikeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRecords) Delete(ctx context.Context, id string) error { return nil }

// --- Mock FuelRepository ---

type mockFuel struct {
	recs []domain.FuelRecord
}

func (m *mockFuel) Insert(ctx context.Context, r *domain.FuelRecord) error {
	m.recs = append(m.recs, *r)
	return nil
}

func (m *mockFuel) ListByBike(ctx context.Context, bikeID string) ([]domain.FuelRecord, error) {
	var out []domain.FuelRecord
	for _, r := range m.recs {
		if r.BikeID == bikeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockFuel) Delete(ctx context.Context, id string) error { return nil }

// --- Mock AnalysisRepository ---

type mockAnalyses struct {
	stored []domain.MaintenanceAnalysis
}

func (m *mockAnalyses) Insert(ctx context.Context, a *domain.MaintenanceAnalysis) error {
	m.stored = append(m.stored, *a)
	return nil
}

func (m *mockAnalyses) LatestByBike(ctx context.Context, bikeID string) (*domain.MaintenanceAnalysis, error) {
	for i := len(m.stored) - 1; i >= 0; i-- {
		if m.stored[i].BikeID == bikeID {
			a := m.stored[i]
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- Mock ProfileRepository ---

type mockProfiles struct {
	p   *domain.Profile
	err error
}

func (m *mockProfiles) Get(ctx context.Context) (*domain.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.p == nil {
		return nil, domain.ErrNotFound
	}
	return m.p, nil
}

func (m *mockProfiles) Save(ctx context.Context, p *domain.Profile) error {
	m.p = p
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}
