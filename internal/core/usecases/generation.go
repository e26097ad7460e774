package usecases

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
	"github.com/samirrijal/motospirit/internal/pkg/metrics"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
)

// generator wraps the generation service with the credential guard shared by
// every AI-backed use case.
type generator struct {
	gen   ports.GenerationService
	creds ports.CredentialBroker
}

// generate runs a single generation call. There is no local timeout and no
// retry: the call lasts as long as ctx allows and a failure is returned as is.
func (g generator) generate(ctx context.Context, op string, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "generation."+op)
	defer span.End()
	span.SetAttributes(telemetry.AttrOperation.String(op), telemetry.AttrModel.String(req.Model))

	if g.creds != nil {
		ok, err := g.creds.HasActiveCredential(ctx)
		if err != nil {
			return nil, g.fail(ctx, span, domain.NewGenerationError(domain.GenerationCredentialMissing, err))
		}
		if !ok {
			return nil, g.fail(ctx, span, domain.NewGenerationError(domain.GenerationCredentialMissing, nil))
		}
	}

	start := time.Now()
	resp, err := g.gen.Generate(ctx, req)
	metrics.ObserveGeneration(op, start)
	if err != nil {
		return nil, g.fail(ctx, span, err)
	}
	span.SetAttributes(telemetry.AttrCitations.Int(len(resp.Citations)))
	return resp, nil
}

func (g generator) fail(ctx context.Context, span trace.Span, err error) error {
	kind, ok := domain.GenerationKind(err)
	if !ok {
		kind = domain.GenerationTransport
		err = domain.NewGenerationError(kind, err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))
	span.SetAttributes(telemetry.AttrErrorKind.String(string(kind)))
	metrics.GenerationErrors.WithLabelValues(string(kind)).Inc()

	log := logging.FromContext(ctx)
	log.Warn("generation failed", "kind", kind, "error", err)

	if kind == domain.GenerationCredentialInvalid && g.creds != nil {
		metrics.CredentialPrompts.Inc()
		if perr := g.creds.PromptSelection(ctx); perr != nil {
			log.Warn("credential prompt failed", "error", perr)
		}
	}
	return err
}
