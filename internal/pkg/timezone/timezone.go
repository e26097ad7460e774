// Package timezone resolves IANA timezone names for route endpoints.
package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Finder looks up timezones with tzf. The underlying finder holds the
// polygon data in memory, so a single instance is shared per process.
type Finder struct {
	finder tzf.F
}

var (
	instance *Finder
	initErr  error
	once     sync.Once
)

// NewFinder creates or returns the shared finder.
func NewFinder() (*Finder, error) {
	once.Do(func() {
		f, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("init timezone finder: %w", err)
			return
		}
		instance = &Finder{finder: f}
	})
	return instance, initErr
}

// GetTimezone returns names like "Europe/Prague" for the given coordinates.
func (f *Finder) GetTimezone(latitude, longitude float64) (string, error) {
	name := f.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", fmt.Errorf("no timezone for lat=%f lon=%f", latitude, longitude)
	}
	return name, nil
}
