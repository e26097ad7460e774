package ports

import (
	"context"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// BikeRepository persists motorcycles.
type BikeRepository interface {
	Create(ctx context.Context, bike *domain.Motorcycle) error
	Update(ctx context.Context, bike *domain.Motorcycle) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Motorcycle, error)
	List(ctx context.Context) ([]domain.Motorcycle, error)
	// RaiseMileage sets the mileage only if it is greater than the stored one.
	RaiseMileage(ctx context.Context, id string, mileage int) (bool, error)
}

// MaintenanceRepository persists maintenance and expense records.
type MaintenanceRepository interface {
	Insert(ctx context.Context, rec *domain.MaintenanceRecord) error
	ListByBike(ctx context.Context, bikeID string) ([]domain.MaintenanceRecord, error)
	Delete(ctx context.Context, id string) error
}

// FuelRepository persists fuel records.
type FuelRepository interface {
	Insert(ctx context.Context, rec *domain.FuelRecord) error
	// ListByBike returns records ordered by mileage, highest first.
	ListByBike(ctx context.Context, bikeID string) ([]domain.FuelRecord, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists the single rider profile.
type ProfileRepository interface {
	Get(ctx context.Context) (*domain.Profile, error)
	Save(ctx context.Context, p *domain.Profile) error
}

// RouteHistoryRepository persists the capped list of recent routes.
type RouteHistoryRepository interface {
	// Add stores the summary and trims the history to keep entries, newest first.
	Add(ctx context.Context, s *domain.RouteSummary, keep int) error
	List(ctx context.Context, limit int) ([]domain.RouteSummary, error)
}

// ChatRepository persists the assistant conversation.
type ChatRepository interface {
	History(ctx context.Context) ([]domain.ChatMessage, error)
	Append(ctx context.Context, msgs ...domain.ChatMessage) error
	Reset(ctx context.Context, seed domain.ChatMessage) error
}

// AnalysisRepository persists maintenance analyses.
type AnalysisRepository interface {
	Insert(ctx context.Context, a *domain.MaintenanceAnalysis) error
	LatestByBike(ctx context.Context, bikeID string) (*domain.MaintenanceAnalysis, error)
}
