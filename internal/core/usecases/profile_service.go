package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
)

// ProfileService manages the rider profile.
type ProfileService struct {
	profiles ports.ProfileRepository
	defaults domain.Profile
	now      func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles ports.ProfileRepository, defaultLanguage string) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		defaults: domain.Profile{Name: "Rider", RidingStyle: "touring", Language: defaultLanguage},
		now:      time.Now,
	}
}

// Get returns the stored profile. A missing or unreadable profile yields the
// defaults.
func (s *ProfileService) Get(ctx context.Context) (*domain.Profile, error) {
	p, err := s.profiles.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logging.FromContext(ctx).Warn("failed to load profile, using defaults", "error", err)
		}
		d := s.defaults
		return &d, nil
	}
	return p, nil
}

// Save validates and stores the profile.
func (s *ProfileService) Save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = s.defaults.Name
	}
	if p.Language == "" {
		p.Language = s.defaults.Language
	}
	if _, err := language.Parse(p.Language); err != nil {
		return nil, fmt.Errorf("%w: unknown language %q", domain.ErrInvalidInput, p.Language)
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}
