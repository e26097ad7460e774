// Package openaiadapter implements the generation port on the OpenAI chat
// completions API.
package openaiadapter

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gpt-4o-mini"

// SearchModel serves requests that ask for web search.
const SearchModel = "gpt-4o-mini-search-preview"

// Client implements ports.GenerationService.
type Client struct {
	api    openai.Client
	model  string
	hasKey bool
}

// New returns a client for apiKey. baseURL may point at any compatible server.
func New(apiKey, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		api:    openai.NewClient(opts...),
		model:  lo.Ternary(model != "", model, DefaultModel),
		hasKey: strings.TrimSpace(apiKey) != "",
	}
}

// Generate runs one chat completion.
func (c *Client) Generate(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
	if !c.hasKey {
		return nil, domain.NewGenerationError(domain.GenerationCredentialMissing, errors.New("no api key configured"))
	}

	params := params(req, c.model)

	ctx, span := telemetry.Tracer().Start(ctx, "openai.ChatCompletion")
	defer span.End()
	span.SetAttributes(telemetry.AttrModel.String(string(params.Model)))

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, Classify(err)
	}
	if len(resp.Choices) == 0 {
		return &ports.GenerationResponse{Citations: []domain.Citation{}}, nil
	}

	msg := resp.Choices[0].Message
	out := &ports.GenerationResponse{Text: msg.Content, Citations: annotations(msg.Annotations)}
	span.SetAttributes(telemetry.AttrCitations.Int(len(out.Citations)))
	return out, nil
}

func params(req ports.GenerationRequest, defaultModel string) openai.ChatCompletionNewParams {
	model := lo.Ternary(req.Model != "", req.Model, defaultModel)
	if req.WebSearch && req.Schema == nil && req.Model == "" {
		model = SearchModel
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.History {
		if m.Role == domain.RoleModel {
			msgs = append(msgs, openai.AssistantMessage(m.Text))
		} else {
			msgs = append(msgs, openai.UserMessage(m.Text))
		}
	}

	if len(req.Images) > 0 {
		parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(req.Images)+1)
		for _, img := range req.Images {
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
			}))
		}
		parts = append(parts, openai.TextContentPart(req.Prompt))
		msgs = append(msgs, openai.UserMessage(parts))
	} else if req.Prompt != "" {
		msgs = append(msgs, openai.UserMessage(req.Prompt))
	}

	p := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: msgs,
	}

	if req.Schema != nil {
		name := lo.Ternary(req.SchemaName != "", req.SchemaName, "response")
		p.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: req.Schema,
				},
			},
		}
	} else if req.WebSearch {
		p.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		}
	}
	return p
}

func annotations(anns []openai.ChatCompletionMessageAnnotation) []domain.Citation {
	out := make([]domain.Citation, 0, len(anns))
	for _, a := range anns {
		if a.URLCitation.URL == "" {
			continue
		}
		out = append(out, domain.Citation{Title: a.URLCitation.Title, URI: a.URLCitation.URL})
	}
	return lo.UniqBy(out, func(c domain.Citation) string { return c.URI })
}

// Classify maps an SDK error to a domain.GenerationError.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return domain.NewGenerationError(domain.GenerationTransport, err)
	}

	msg := strings.ToLower(apiErr.Message + " " + apiErr.Code)
	var kind domain.GenerationErrorKind
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized, strings.Contains(msg, "invalid_api_key"):
		kind = domain.GenerationCredentialInvalid
	case strings.Contains(msg, "insufficient_quota"), strings.Contains(msg, "billing"):
		kind = domain.GenerationBilling
	case apiErr.StatusCode == http.StatusTooManyRequests:
		kind = domain.GenerationQuota
	case apiErr.StatusCode == http.StatusForbidden:
		kind = domain.GenerationCredentialInvalid
	default:
		kind = domain.GenerationTransport
	}
	return domain.NewGenerationError(kind, err)
}
