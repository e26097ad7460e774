package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
)

// Logbook entry kinds.
const (
	EntryFuel    = "fuel"
	EntryExpense = "expense"
)

const aiDescription = "Entered by AI"

// Consumption is the average fuel consumption between the two most recent
// refuellings.
type Consumption struct {
	Available      bool    `json:"available"`
	LitersPer100Km float64 `json:"liters_per_100km"`
	DistanceKm     int     `json:"distance_km"`
}

// String renders the consumption the way the logbook shows it.
func (c Consumption) String() string {
	if !c.Available {
		return "--"
	}
	return strconv.FormatFloat(c.LitersPer100Km, 'f', 2, 64)
}

// LogbookService handles fuel records, the merged timeline and confirmation
// of extracted receipts.
type LogbookService struct {
	bikes   ports.BikeRepository
	fuel    ports.FuelRepository
	records ports.MaintenanceRepository
	cache   ports.CacheService
	events  ports.EventPublisher
	now     func() time.Time
}

// NewLogbookService creates a new LogbookService. cache and events may be nil.
func NewLogbookService(
	bikes ports.BikeRepository,
	fuel ports.FuelRepository,
	records ports.MaintenanceRepository,
	cache ports.CacheService,
	events ports.EventPublisher,
) *LogbookService {
	return &LogbookService{bikes: bikes, fuel: fuel, records: records, cache: cache, events: events, now: time.Now}
}

// AddFuel stores a refuelling and raises the bike's mileage when newer.
func (s *LogbookService) AddFuel(ctx context.Context, rec *domain.FuelRecord) (*domain.FuelRecord, error) {
	if _, err := s.bikes.GetByID(ctx, rec.BikeID); err != nil {
		return nil, err
	}
	if rec.Liters < 0 || rec.Cost < 0 || rec.Mileage < 0 {
		return nil, fmt.Errorf("%w: liters, cost and mileage must not be negative", domain.ErrInvalidInput)
	}
	if rec.Date == "" {
		rec.Date = s.today()
	} else if _, err := time.Parse(time.DateOnly, rec.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()
	if err := s.fuel.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("insert fuel record: %w", err)
	}
	s.raiseMileage(ctx, rec.BikeID, rec.Mileage)
	return rec, nil
}

// ListFuel returns refuellings ordered by mileage, highest first.
func (s *LogbookService) ListFuel(ctx context.Context, bikeID string) ([]domain.FuelRecord, error) {
	recs, err := s.fuel.ListByBike(ctx, bikeID)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []domain.FuelRecord{}
	}
	return recs, nil
}

// DeleteFuel removes one refuelling.
func (s *LogbookService) DeleteFuel(ctx context.Context, id string) error {
	return s.fuel.Delete(ctx, id)
}

// Timeline merges fuel and expense records of a bike, newest date first.
func (s *LogbookService) Timeline(ctx context.Context, bikeID string) ([]domain.LogbookEntry, error) {
	fuel, err := s.fuel.ListByBike(ctx, bikeID)
	if err != nil {
		return nil, fmt.Errorf("list fuel: %w", err)
	}
	expenses, err := s.records.ListByBike(ctx, bikeID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	entries := append(
		lo.Map(fuel, func(f domain.FuelRecord, _ int) domain.LogbookEntry {
			return domain.LogbookEntry{Kind: EntryFuel, Date: f.Date, Fuel: &f}
		}),
		lo.Map(expenses, func(m domain.MaintenanceRecord, _ int) domain.LogbookEntry {
			return domain.LogbookEntry{Kind: EntryExpense, Date: m.Date, Maintenance: &m}
		})...,
	)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	return entries, nil
}

// Consumption computes liters per 100 km from the two refuellings with the
// highest mileage. It is unavailable with fewer than two records or when the
// distance between them is not positive.
func (s *LogbookService) Consumption(ctx context.Context, bikeID string) (Consumption, error) {
	recs, err := s.fuel.ListByBike(ctx, bikeID)
	if err != nil {
		return Consumption{}, err
	}
	return ConsumptionOf(recs), nil
}

// ConsumptionOf computes consumption from records in any order.
func ConsumptionOf(recs []domain.FuelRecord) Consumption {
	if len(recs) < 2 {
		return Consumption{}
	}
	sorted := make([]domain.FuelRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Mileage > sorted[j].Mileage })

	latest, previous := sorted[0], sorted[1]
	distance := latest.Mileage - previous.Mileage
	if distance <= 0 {
		return Consumption{}
	}
	l := latest.Liters / float64(distance) * 100
	return Consumption{
		Available:      true,
		LitersPer100Km: math.Round(l*100) / 100,
		DistanceKm:     distance,
	}
}

// Confirm stores a pending record extracted from a receipt. Missing dates
// default to today and unparseable numbers become zero.
func (s *LogbookService) Confirm(ctx context.Context, bikeID string, p *domain.PendingRecord) (*domain.LogbookEntry, error) {
	if _, err := s.bikes.GetByID(ctx, bikeID); err != nil {
		return nil, err
	}

	date := strings.TrimSpace(p.Date)
	if date == "" {
		date = s.today()
	}
	mileage := coerceInt(p.Mileage)
	cost := coerceFloat(p.Cost)
	now := s.now().UTC()

	var entry domain.LogbookEntry
	if p.Type == domain.RecordFuel {
		rec := &domain.FuelRecord{
			ID:           uuid.NewString(),
			BikeID:       bikeID,
			Date:         date,
			Mileage:      mileage,
			Liters:       coerceFloat(p.Liters),
			Cost:         cost,
			ReceiptImage: p.ReceiptImage,
			CreatedAt:    now,
		}
		if err := s.fuel.Insert(ctx, rec); err != nil {
			return nil, fmt.Errorf("insert fuel record: %w", err)
		}
		entry = domain.LogbookEntry{Kind: EntryFuel, Date: date, Fuel: rec}
	} else {
		typ := domain.RecordOther
		if p.Type == domain.RecordService {
			typ = domain.RecordService
		}
		desc := strings.TrimSpace(p.Description)
		if desc == "" {
			desc = aiDescription
		}
		rec := &domain.MaintenanceRecord{
			ID:           uuid.NewString(),
			BikeID:       bikeID,
			Date:         date,
			Type:         typ,
			Description:  desc,
			Mileage:      mileage,
			Cost:         cost,
			ReceiptImage: p.ReceiptImage,
			CreatedAt:    now,
		}
		if err := s.records.Insert(ctx, rec); err != nil {
			return nil, fmt.Errorf("insert expense: %w", err)
		}
		entry = domain.LogbookEntry{Kind: EntryExpense, Date: date, Maintenance: rec}
	}

	s.raiseMileage(ctx, bikeID, mileage)

	if s.events != nil {
		if err := s.events.PublishRecordSaved(ctx, bikeID, &entry); err != nil {
			logging.FromContext(ctx).Warn("failed to publish record", "error", err)
		}
	}
	return &entry, nil
}

func (s *LogbookService) raiseMileage(ctx context.Context, bikeID string, mileage int) {
	if mileage <= 0 {
		return
	}
	raised, err := s.bikes.RaiseMileage(ctx, bikeID, mileage)
	if err != nil {
		logging.FromContext(ctx).Warn("failed to update bike mileage", "bike_id", bikeID, "error", err)
		return
	}
	if raised {
		invalidateBike(ctx, s.cache, bikeID)
	}
}

func (s *LogbookService) today() string {
	return s.now().Format(time.DateOnly)
}

// coerceInt reads a loosely typed number, truncating decimals. Anything
// unparseable is zero.
func coerceInt(v any) int {
	f := coerceFloat(v)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// coerceFloat reads a loosely typed number. A decimal comma is accepted and
// spaces used as thousands separators are ignored.
func coerceFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	case string:
		s := strings.NewReplacer(" ", "", "\u00a0", "", ",", ".").Replace(strings.TrimSpace(n))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
