// Package gemini implements the generation port on Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"google.golang.org/genai"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.5-flash"

// Client implements ports.GenerationService.
type Client struct {
	apiKey string
	model  string

	mu     sync.Mutex
	client *genai.Client
}

// New returns a client for apiKey. The SDK client is created on first use so
// that a process without a key can still start.
func New(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{apiKey: apiKey, model: model}
}

func (c *Client) sdk(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, domain.NewGenerationError(domain.GenerationCredentialMissing, errors.New("no api key configured"))
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domain.NewGenerationError(domain.GenerationTransport, fmt.Errorf("genai client: %w", err))
	}
	c.client = cl
	return cl, nil
}

// Generate runs one GenerateContent call.
func (c *Client) Generate(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	model := lo.Ternary(req.Model != "", req.Model, c.model)

	ctx, span := telemetry.Tracer().Start(ctx, "gemini.GenerateContent")
	defer span.End()
	span.SetAttributes(telemetry.AttrModel.String(model))

	cl, err := c.sdk(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := cl.Models.GenerateContent(ctx, model, contents(req), config(req))
	if err != nil {
		return nil, Classify(err)
	}

	out := &ports.GenerationResponse{Text: resp.Text(), Citations: citations(resp)}
	span.SetAttributes(telemetry.AttrCitations.Int(len(out.Citations)))
	return out, nil
}

func contents(req ports.GenerationRequest) []*genai.Content {
	out := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Text, role))
	}

	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	if req.Prompt != "" {
		parts = append(parts, genai.NewPartFromText(req.Prompt))
	}
	if len(parts) > 0 {
		out = append(out, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return out
}

func config(req ports.GenerationRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	// Structured output and grounding tools cannot be combined.
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.Schema
		return cfg
	}

	if req.WebSearch {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	if req.MapsGrounding {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleMaps: &genai.GoogleMaps{}})
		if req.Location != nil {
			cfg.ToolConfig = &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  genai.Ptr(req.Location.Lat),
						Longitude: genai.Ptr(req.Location.Lon),
					},
				},
			}
		}
	}
	return cfg
}

// citations collects web and maps grounding chunks, first occurrence of a URI wins.
func citations(resp *genai.GenerateContentResponse) []domain.Citation {
	var out []domain.Citation
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, ch := range cand.GroundingMetadata.GroundingChunks {
			switch {
			case ch.Web != nil:
				out = append(out, domain.Citation{Title: ch.Web.Title, URI: ch.Web.URI})
			case ch.Maps != nil:
				out = append(out, domain.Citation{Title: ch.Maps.Title, URI: ch.Maps.URI})
			}
		}
	}
	out = lo.Filter(out, func(c domain.Citation, _ int) bool { return c.URI != "" })
	return lo.UniqBy(out, func(c domain.Citation) string { return c.URI })
}
