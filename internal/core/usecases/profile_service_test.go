package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/usecases"
)

func TestProfileService_GetDefaults(t *testing.T) {
	tests := []struct {
		name string
		repo *mockProfiles
	}{
		{"missing", &mockProfiles{}},
		{"unreadable", &mockProfiles{err: errors.New("corrupt json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := usecases.NewProfileService(tt.repo, "cs")
			p, err := svc.Get(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if p.Language != "cs" || p.Name == "" {
				t.Errorf("unexpected defaults %+v", p)
			}
		})
	}
}

func TestProfileService_Save(t *testing.T) {
	repo := &mockProfiles{}
	svc := usecases.NewProfileService(repo, "cs")

	p, err := svc.Save(context.Background(), &domain.Profile{Name: " Jana ", HomeBase: "Brno", Language: "de"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Jana" || p.UpdatedAt.IsZero() || repo.p == nil {
		t.Errorf("unexpected profile %+v", p)
	}

	if _, err := svc.Save(context.Background(), &domain.Profile{Language: "???"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
