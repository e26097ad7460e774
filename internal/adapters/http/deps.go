package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/motospirit/internal/adapters/postgres"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/core/usecases"
)

// Pinger is a cache backend that can report its health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Profiles     *usecases.ProfileService
	Garage       *usecases.GarageService
	Logbook      *usecases.LogbookService
	Receipts     *usecases.ReceiptService
	Analysis     *usecases.AnalysisService
	Trips        *usecases.TripService
	Sessions     *usecases.TripSessions
	Chat         *usecases.ChatService
	NATS         *nats.Conn
	DB           *postgres.DB
	Cache        Pinger
	// Credentials is only reported by /v1/ready.
	Credentials  ports.CredentialBroker
	// HistoryLimit caps GET /v1/trips/history.
	HistoryLimit int
}
