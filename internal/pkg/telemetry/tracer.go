package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used by application spans.
const TracerName = "github.com/samirrijal/motospirit"

// Span attribute keys.
const (
	AttrOrigin    = attribute.Key("trip.origin")
	AttrWaypoints = attribute.Key("trip.waypoints")
	AttrRejected  = attribute.Key("trip.waypoints_rejected")
	AttrMarker    = attribute.Key("trip.marker_found")
	AttrOutcome   = attribute.Key("trip.outcome")
	AttrSession   = attribute.Key("trip.session")
	AttrBikeID    = attribute.Key("bike.id")
	AttrModel     = attribute.Key("generation.model")
	AttrOperation = attribute.Key("generation.operation")
	AttrErrorKind = attribute.Key("generation.error_kind")
	AttrCitations = attribute.Key("generation.citations")
)

// InitTracer installs a global tracer provider exporting over OTLP/gRPC to
// addr. The returned function flushes and stops the exporter.
func InitTracer(ctx context.Context, service, addr string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(addr),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", service))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// Tracer returns the application tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
