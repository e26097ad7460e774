package ports

import (
	"context"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// InlineImage is binary image content attached to a generation request.
type InlineImage struct {
	MIMEType string
	Data     []byte
}

// GenerationRequest is a single call to the generation service.
type GenerationRequest struct {
	Model  string // empty selects the provider default
	System string
	Prompt string
	// History holds earlier conversation turns, oldest first.
	History       []domain.ChatMessage
	Images        []InlineImage
	WebSearch     bool
	MapsGrounding bool
	// Schema requests a JSON response matching this JSON Schema.
	Schema     map[string]any
	SchemaName string
	Location   *domain.Waypoint
}

// GenerationResponse carries the generated text and any grounding citations.
type GenerationResponse struct {
	Text      string
	Citations []domain.Citation
}

// GenerationService is the hosted language model. Failures are returned as
// *domain.GenerationError.
type GenerationService interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
}

// CredentialBroker guards access to the generation service credential.
type CredentialBroker interface {
	HasActiveCredential(ctx context.Context) (bool, error)
	// PromptSelection asks the rider to select a credential.
	PromptSelection(ctx context.Context) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRoutePlanned(ctx context.Context, sessionID string, route *domain.Route) error
	PublishRecordSaved(ctx context.Context, bikeID string, entry *domain.LogbookEntry) error
	PublishAnalysisRequested(ctx context.Context, req *domain.AnalysisRequest) error
	PublishAnalysisReady(ctx context.Context, a *domain.MaintenanceAnalysis) error
	PublishCredentialPrompt(ctx context.Context) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeAnalysisRequests(ctx context.Context, handler func(ctx context.Context, req *domain.AnalysisRequest) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// TimezoneService resolves IANA timezone names.
type TimezoneService interface {
	GetTimezone(latitude, longitude float64) (string, error)
}
