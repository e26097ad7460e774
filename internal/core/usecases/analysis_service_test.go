package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/usecases"
)

func TestAnalysisService_Analyze(t *testing.T) {
	bikes := newMockBikes(domain.Motorcycle{ID: "b1", Brand: "Triumph", Model: "Tiger 900", Mileage: 24000})
	recs := &mockRecords{recs: []domain.MaintenanceRecord{{BikeID: "b1", Date: "2024-01-10", Type: "oil", Mileage: 18000}}}
	store := &mockAnalyses{}
	events := &mockEvents{}
	gen := replyWith("Valve clearance check is due.")
	svc := usecases.NewAnalysisService(gen, &mockCreds{active: true}, bikes, recs, store, events, "pro", "cs")

	a, err := svc.Analyze(context.Background(), "b1")
	if err != nil {
		t.Fatal(err)
	}
	if a.Text != "Valve clearance check is due." || a.BikeID != "b1" {
		t.Errorf("unexpected analysis %+v", a)
	}
	if len(store.stored) != 1 || len(events.ready) != 1 {
		t.Errorf("stored=%d ready=%d", len(store.stored), len(events.ready))
	}

	req := gen.lastCall()
	for _, want := range []string{"Triumph Tiger 900", "24000 km", `"mileage":18000`, "Czech"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("prompt missing %q: %s", want, req.Prompt)
		}
	}
	if req.Model != "pro" {
		t.Errorf("model = %q", req.Model)
	}

	latest, err := svc.Latest(context.Background(), "b1")
	if err != nil || latest.ID != a.ID {
		t.Errorf("Latest = %+v, %v", latest, err)
	}
}

func TestAnalysisService_Request(t *testing.T) {
	bikes := newMockBikes(domain.Motorcycle{ID: "b1", Brand: "Triumph", Model: "Tiger 900"})
	events := &mockEvents{}
	svc := usecases.NewAnalysisService(&mockGenerator{}, nil, bikes, &mockRecords{}, &mockAnalyses{}, events, "", "cs")

	req, err := svc.Request(context.Background(), "b1")
	if err != nil {
		t.Fatal(err)
	}
	if req.RequestID == "" || len(events.requested) != 1 {
		t.Errorf("request not published: %+v", events.requested)
	}

	if _, err := svc.Request(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
