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
	"github.com/samirrijal/motospirit/internal/pkg/metrics"
)

const (
	bikeListKey = "bikes:list"
	bikeTTL     = 600
)

func bikeKey(id string) string { return "bikes:id:" + id }

// invalidateBike drops cached lookups touched by a write to bike id.
func invalidateBike(ctx context.Context, cache ports.CacheService, id string) {
	if cache == nil {
		return
	}
	_ = cache.Delete(ctx, bikeKey(id))
	_ = cache.Delete(ctx, bikeListKey)
}

// GarageService handles bikes and their maintenance records.
type GarageService struct {
	bikes   ports.BikeRepository
	records ports.MaintenanceRepository
	cache   ports.CacheService
	now     func() time.Time
}

// NewGarageService creates a new GarageService. cache may be nil.
func NewGarageService(bikes ports.BikeRepository, records ports.MaintenanceRepository, cache ports.CacheService) *GarageService {
	return &GarageService{bikes: bikes, records: records, cache: cache, now: time.Now}
}

func validateBike(b *domain.Motorcycle) error {
	b.Brand = strings.TrimSpace(b.Brand)
	b.Model = strings.TrimSpace(b.Model)
	switch {
	case b.Brand == "" || b.Model == "":
		return fmt.Errorf("%w: brand and model are required", domain.ErrInvalidInput)
	case b.Mileage < 0:
		return fmt.Errorf("%w: mileage must not be negative", domain.ErrInvalidInput)
	case b.Year != 0 && (b.Year < 1885 || b.Year > time.Now().Year()+1):
		return fmt.Errorf("%w: year %d is out of range", domain.ErrInvalidInput, b.Year)
	}
	return nil
}

// CreateBike adds a bike to the garage.
func (s *GarageService) CreateBike(ctx context.Context, b *domain.Motorcycle) (*domain.Motorcycle, error) {
	if err := validateBike(b); err != nil {
		return nil, err
	}
	b.ID = uuid.NewString()
	b.CreatedAt = s.now().UTC()
	if err := s.bikes.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create bike: %w", err)
	}
	invalidateBike(ctx, s.cache, b.ID)
	return b, nil
}

// UpdateBike replaces the stored bike.
func (s *GarageService) UpdateBike(ctx context.Context, b *domain.Motorcycle) (*domain.Motorcycle, error) {
	if err := validateBike(b); err != nil {
		return nil, err
	}
	if err := s.bikes.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update bike: %w", err)
	}
	invalidateBike(ctx, s.cache, b.ID)
	return b, nil
}

// DeleteBike removes a bike and its records.
func (s *GarageService) DeleteBike(ctx context.Context, id string) error {
	if err := s.bikes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete bike: %w", err)
	}
	invalidateBike(ctx, s.cache, id)
	return nil
}

// GetBike returns a single bike.
func (s *GarageService) GetBike(ctx context.Context, id string) (*domain.Motorcycle, error) {
	cacheKey := bikeKey(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var bike domain.Motorcycle
			if err := json.Unmarshal(data, &bike); err == nil {
				metrics.CacheHits.WithLabelValues("bike").Inc()
				return &bike, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("bike").Inc()
	}

	bike, err := s.bikes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(bike); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, bikeTTL)
		}
	}
	return bike, nil
}

// ListBikes returns every bike in the garage.
func (s *GarageService) ListBikes(ctx context.Context) ([]domain.Motorcycle, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, bikeListKey); err == nil {
			var bikes []domain.Motorcycle
			if err := json.Unmarshal(data, &bikes); err == nil {
				metrics.CacheHits.WithLabelValues("bikes").Inc()
				return bikes, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("bikes").Inc()
	}

	bikes, err := s.bikes.List(ctx)
	if err != nil {
		return nil, err
	}
	if bikes == nil {
		bikes = []domain.Motorcycle{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(bikes); err == nil {
			_ = s.cache.Set(ctx, bikeListKey, data, bikeTTL)
		}
	}
	return bikes, nil
}

// AddMaintenance records a service or expense for a bike and raises the
// bike's mileage when the record is newer.
func (s *GarageService) AddMaintenance(ctx context.Context, rec *domain.MaintenanceRecord) (*domain.MaintenanceRecord, error) {
	if _, err := s.GetBike(ctx, rec.BikeID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rec.Type) == "" {
		return nil, fmt.Errorf("%w: record type is required", domain.ErrInvalidInput)
	}
	if rec.Mileage < 0 || rec.Cost < 0 {
		return nil, fmt.Errorf("%w: mileage and cost must not be negative", domain.ErrInvalidInput)
	}
	if rec.Date == "" {
		rec.Date = s.now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, rec.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()
	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert maintenance record: %w", err)
	}
	if rec.Mileage > 0 {
		if raised, err := s.bikes.RaiseMileage(ctx, rec.BikeID, rec.Mileage); err == nil && raised {
			invalidateBike(ctx, s.cache, rec.BikeID)
		}
	}
	return rec, nil
}

// ListMaintenance returns the records of a bike.
func (s *GarageService) ListMaintenance(ctx context.Context, bikeID string) ([]domain.MaintenanceRecord, error) {
	recs, err := s.records.ListByBike(ctx, bikeID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []domain.MaintenanceRecord{}
	}
	return recs, nil
}

// DeleteMaintenance removes one record.
func (s *GarageService) DeleteMaintenance(ctx context.Context, id string) error {
	return s.records.Delete(ctx, id)
}
