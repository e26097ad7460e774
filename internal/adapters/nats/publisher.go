package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// Subjects published by MotoSpirit.
const (
	SubjectRoutePrefix       = "moto.route."
	SubjectRecordPrefix      = "moto.record."
	SubjectAnalysisRequested = "moto.analysis.requested."
	SubjectAnalysisReady     = "moto.analysis.ready."
	SubjectCredentialPrompt  = "moto.credentials.select"
)

// RoutePlannedEvent is the payload of moto.route.<session>.
type RoutePlannedEvent struct {
	SessionID string        `json:"session_id"`
	Route     *domain.Route `json:"route"`
}

// RecordSavedEvent is the payload of moto.record.<bike>.
type RecordSavedEvent struct {
	BikeID string               `json:"bike_id"`
	Entry  *domain.LogbookEntry `json:"entry"`
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	streams := []nats.StreamConfig{
		{
			Name:      "MOTO_EVENTS",
			Subjects:  []string{"moto.route.>", "moto.record.>", "moto.analysis.ready.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "MOTO_ANALYSIS_REQUESTS",
			Subjects:  []string{"moto.analysis.requested.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishRoutePlanned(ctx context.Context, sessionID string, route *domain.Route) error {
	return p.publish(ctx, SubjectRoutePrefix+sessionID, RoutePlannedEvent{SessionID: sessionID, Route: route})
}

func (p *Publisher) PublishRecordSaved(ctx context.Context, bikeID string, entry *domain.LogbookEntry) error {
	return p.publish(ctx, SubjectRecordPrefix+bikeID, RecordSavedEvent{BikeID: bikeID, Entry: entry})
}

func (p *Publisher) PublishAnalysisRequested(ctx context.Context, req *domain.AnalysisRequest) error {
	return p.publish(ctx, SubjectAnalysisRequested+req.BikeID, req)
}

func (p *Publisher) PublishAnalysisReady(ctx context.Context, a *domain.MaintenanceAnalysis) error {
	return p.publish(ctx, SubjectAnalysisReady+a.BikeID, a)
}

// PublishCredentialPrompt is fire-and-forget; only connected clients care.
func (p *Publisher) PublishCredentialPrompt(ctx context.Context) error {
	return p.conn.Publish(SubjectCredentialPrompt, []byte(`{"action":"select_credential"}`))
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("motospirit"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
