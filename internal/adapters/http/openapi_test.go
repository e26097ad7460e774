package http_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates api/openapi.yaml by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	t.Helper()
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()
	data, err := os.ReadFile(findOpenAPISpec(t))
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the document and checks it covers every route.
func TestOpenAPISpec(t *testing.T) {
	spec := loadSpec(t)

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/profile",
		"/v1/bikes",
		"/v1/bikes/{id}",
		"/v1/bikes/{id}/maintenance",
		"/v1/maintenance/{id}",
		"/v1/bikes/{id}/analysis",
		"/v1/bikes/{id}/fuel",
		"/v1/fuel/{id}",
		"/v1/bikes/{id}/logbook",
		"/v1/bikes/{id}/consumption",
		"/v1/bikes/{id}/records",
		"/v1/receipts/extract",
		"/v1/trips/plan",
		"/v1/trips/current",
		"/v1/trips/map",
		"/v1/trips/map/visible",
		"/v1/trips/history",
		"/v1/chat",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	expectedSchemas := []string{
		"APIError",
		"Pagination",
		"Waypoint",
		"Route",
		"RouteSummary",
		"MapState",
		"PlanTripResponse",
		"Motorcycle",
		"MaintenanceRecord",
		"FuelRecord",
		"PendingRecord",
		"LogbookEntry",
		"Consumption",
		"MaintenanceAnalysis",
		"ChatMessage",
		"Profile",
	}
	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	spec := loadSpec(t)

	if spec.Info.Title != "MotoSpirit API" {
		t.Errorf("expected title 'MotoSpirit API', got %q", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}
	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}
	if len(spec.Servers) == 0 {
		t.Fatal("expected at least one server")
	}
}

// TestOpenAPI_GenerationErrorsDocumented checks that generation-backed
// operations document the statuses errFrom can produce.
func TestOpenAPI_GenerationErrorsDocumented(t *testing.T) {
	spec := loadSpec(t)

	ops := map[string]*openapi3.Operation{
		"/v1/trips/plan":          spec.Paths.Find("/v1/trips/plan").Post,
		"/v1/chat":                spec.Paths.Find("/v1/chat").Post,
		"/v1/receipts/extract":    spec.Paths.Find("/v1/receipts/extract").Post,
		"/v1/bikes/{id}/analysis": spec.Paths.Find("/v1/bikes/{id}/analysis").Post,
	}
	for path, op := range ops {
		for _, code := range []int{401, 402, 429, 502} {
			if op.Responses.Status(code) == nil {
				t.Errorf("%s: status %d not documented", path, code)
			}
		}
	}
}
