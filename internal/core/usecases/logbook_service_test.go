package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/usecases"
)

func TestConsumptionOf(t *testing.T) {
	tests := []struct {
		name      string
		recs      []domain.FuelRecord
		available bool
		want      float64
		str       string
	}{
		{"no records", nil, false, 0, "--"},
		{"one record", []domain.FuelRecord{{Mileage: 1000, Liters: 10}}, false, 0, "--"},
		{
			"two records",
			[]domain.FuelRecord{{Mileage: 1000, Liters: 12}, {Mileage: 1300, Liters: 15}},
			true, 5, "5.00",
		},
		{
			"uses latest two by mileage",
			[]domain.FuelRecord{{Mileage: 1300, Liters: 15}, {Mileage: 100, Liters: 9}, {Mileage: 1000, Liters: 12}, {Mileage: 1700, Liters: 17.32}},
			true, 4.33, "4.33",
		},
		{
			"zero distance",
			[]domain.FuelRecord{{Mileage: 1000, Liters: 12}, {Mileage: 1000, Liters: 15}},
			false, 0, "--",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := usecases.ConsumptionOf(tt.recs)
			if c.Available != tt.available || c.LitersPer100Km != tt.want {
				t.Errorf("ConsumptionOf = %+v, want available=%v %v", c, tt.available, tt.want)
			}
			if c.String() != tt.str {
				t.Errorf("String() = %q, want %q", c.String(), tt.str)
			}
		})
	}
}

func TestLogbookService_Confirm_Fuel(t *testing.T) {
	bikes := newMockBikes(domain.Motorcycle{ID: "b1", Brand: "Honda", Model: "CB500X", Mileage: 10000})
	fuel := &mockFuel{}
	events := &mockEvents{}
	cache := newMockCache()
	cache.data["bikes:id:b1"] = []byte(`{"id":"b1"}`)
	svc := usecases.NewLogbookService(bikes, fuel, &mockRecords{}, cache, events)

	entry, err := svc.Confirm(context.Background(), "b1", &domain.PendingRecord{
		Type: domain.RecordFuel, Mileage: "10 450", Liters: "14,2", Cost: 812.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if entry.Kind != usecases.EntryFuel || entry.Fuel == nil {
		t.Fatalf("unexpected entry %+v", entry)
	}
	f := entry.Fuel
	if f.Mileage != 10450 || f.Liters != 14.2 || f.Cost != 812.5 {
		t.Errorf("coerced values = %+v", f)
	}
	if f.Date != time.Now().Format(time.DateOnly) {
		t.Errorf("date = %q, want today", f.Date)
	}
	if bikes.bikes["b1"].Mileage != 10450 {
		t.Errorf("bike mileage = %d, want 10450", bikes.bikes["b1"].Mileage)
	}
	if _, ok := cache.data["bikes:id:b1"]; ok {
		t.Error("bike cache not invalidated")
	}
	if len(events.records) != 1 {
		t.Error("expected a record event")
	}
}

func TestLogbookService_Confirm_ExpenseKeepsHigherMileage(t *testing.T) {
	bikes := newMockBikes(domain.Motorcycle{ID: "b1", Brand: "Honda", Model: "CB500X", Mileage: 20000})
	recs := &mockRecords{}
	svc := usecases.NewLogbookService(bikes, &mockFuel{}, recs, nil, nil)

	entry, err := svc.Confirm(context.Background(), "b1", &domain.PendingRecord{
		Type: "tyres", Date: "2024-05-01", Mileage: 15000.0, Cost: "abc",
	})
	if err != nil {
		t.Fatal(err)
	}
	m := entry.Maintenance
	if m == nil || m.Type != domain.RecordOther || m.Cost != 0 || m.Description == "" {
		t.Errorf("unexpected expense %+v", m)
	}
	if bikes.bikes["b1"].Mileage != 20000 {
		t.Errorf("mileage lowered to %d", bikes.bikes["b1"].Mileage)
	}
}

func TestLogbookService_Timeline(t *testing.T) {
	fuel := &mockFuel{recs: []domain.FuelRecord{
		{ID: "f1", BikeID: "b1", Date: "2024-03-01"},
		{ID: "f2", BikeID: "b1", Date: "2024-05-01"},
	}}
	recs := &mockRecords{recs: []domain.MaintenanceRecord{
		{ID: "m1", BikeID: "b1", Date: "2024-04-01"},
		{ID: "m2", BikeID: "other", Date: "2024-06-01"},
	}}
	svc := usecases.NewLogbookService(newMockBikes(), fuel, recs, nil, nil)

	entries, err := svc.Timeline(context.Background(), "b1")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"2024-05-01", "2024-04-01", "2024-03-01"}
	for i, e := range entries {
		if e.Date != want[i] {
			t.Errorf("entry %d date = %s, want %s", i, e.Date, want[i])
		}
	}
	if entries[1].Kind != usecases.EntryExpense || entries[1].Maintenance.ID != "m1" {
		t.Errorf("unexpected middle entry %+v", entries[1])
	}
	if entries[0].Fuel.ID != "f2" || entries[2].Fuel.ID != "f1" {
		t.Error("fuel entries point at the wrong records")
	}
}

func TestLogbookService_AddFuel(t *testing.T) {
	bikes := newMockBikes(domain.Motorcycle{ID: "b1", Brand: "BMW", Model: "F900", Mileage: 100})
	fuel := &mockFuel{}
	svc := usecases.NewLogbookService(bikes, fuel, &mockRecords{}, nil, nil)

	if _, err := svc.AddFuel(context.Background(), &domain.FuelRecord{BikeID: "b1", Mileage: 400, Liters: 12, Cost: 500}); err != nil {
		t.Fatal(err)
	}
	if len(fuel.recs) != 1 || bikes.bikes["b1"].Mileage != 400 {
		t.Errorf("fuel=%v mileage=%d", fuel.recs, bikes.bikes["b1"].Mileage)
	}
	if _, err := svc.AddFuel(context.Background(), &domain.FuelRecord{BikeID: "b1", Liters: -1}); err == nil {
		t.Error("expected error for negative liters")
	}
}
