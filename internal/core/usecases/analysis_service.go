package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
)

const analysisFallback = "The analysis did not produce a result."

// AnalysisService asks the generation service for maintenance advice.
type AnalysisService struct {
	generator
	bikes    ports.BikeRepository
	records  ports.MaintenanceRepository
	analyses ports.AnalysisRepository
	events   ports.EventPublisher
	model    string
	language string
	now      func() time.Time
}

// NewAnalysisService creates a new AnalysisService. events may be nil.
func NewAnalysisService(
	gen ports.GenerationService,
	creds ports.CredentialBroker,
	bikes ports.BikeRepository,
	records ports.MaintenanceRepository,
	analyses ports.AnalysisRepository,
	events ports.EventPublisher,
	model, language string,
) *AnalysisService {
	return &AnalysisService{
		generator: generator{gen: gen, creds: creds},
		bikes:     bikes,
		records:   records,
		analyses:  analyses,
		events:    events,
		model:     model,
		language:  language,
		now:       time.Now,
	}
}

// AnalysisPrompt describes the bike and its service history.
func AnalysisPrompt(bike *domain.Motorcycle, recs []domain.MaintenanceRecord, lang string) (string, error) {
	slim := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		slim = append(slim, map[string]any{
			"date": r.Date, "type": r.Type, "description": r.Description,
			"mileage": r.Mileage, "cost": r.Cost,
		})
	}
	data, err := json.Marshal(slim)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"Motorcycle: %s %s, odometer %d km. Records: %s. Suggest the maintenance it needs next. Answer in %s.",
		bike.Brand, bike.Model, bike.Mileage, data, LanguageName(lang),
	), nil
}

// Analyze generates, stores and announces a maintenance analysis for a bike.
func (s *AnalysisService) Analyze(ctx context.Context, bikeID string) (*domain.MaintenanceAnalysis, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "analysis.analyze")
	defer span.End()
	span.SetAttributes(telemetry.AttrBikeID.String(bikeID))

	bike, err := s.bikes.GetByID(ctx, bikeID)
	if err != nil {
		return nil, err
	}
	recs, err := s.records.ListByBike(ctx, bikeID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	prompt, err := AnalysisPrompt(bike, recs, s.language)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	resp, err := s.generate(ctx, "analysis", ports.GenerationRequest{Model: s.model, Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("analyze maintenance: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		text = analysisFallback
	}

	a := &domain.MaintenanceAnalysis{
		ID:        uuid.NewString(),
		BikeID:    bikeID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.analyses.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("store analysis: %w", err)
	}
	s.announce(ctx, a)
	return a, nil
}

func (s *AnalysisService) announce(ctx context.Context, a *domain.MaintenanceAnalysis) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAnalysisReady(ctx, a); err != nil {
		logging.FromContext(ctx).Warn("failed to publish analysis", "error", err)
	}
}

// Request queues an analysis for the worker and returns immediately.
func (s *AnalysisService) Request(ctx context.Context, bikeID string) (*domain.AnalysisRequest, error) {
	if _, err := s.bikes.GetByID(ctx, bikeID); err != nil {
		return nil, err
	}
	if s.events == nil {
		return nil, fmt.Errorf("asynchronous analysis is not available")
	}
	req := &domain.AnalysisRequest{
		RequestID:   uuid.NewString(),
		BikeID:      bikeID,
		RequestedAt: s.now().UTC(),
	}
	if err := s.events.PublishAnalysisRequested(ctx, req); err != nil {
		return nil, fmt.Errorf("queue analysis: %w", err)
	}
	return req, nil
}

// Latest returns the most recent analysis of a bike.
func (s *AnalysisService) Latest(ctx context.Context, bikeID string) (*domain.MaintenanceAnalysis, error) {
	return s.analyses.LatestByBike(ctx, bikeID)
}
