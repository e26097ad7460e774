package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/imaging"
)

// ReceiptInput is either a photographed receipt or a spoken description.
type ReceiptInput struct {
	Image []byte
	Text  string
}

// ReceiptService extracts logbook records from receipts.
type ReceiptService struct {
	generator
	model    string
	language string
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(gen ports.GenerationService, creds ports.CredentialBroker, model, language string) *ReceiptService {
	return &ReceiptService{generator: generator{gen: gen, creds: creds}, model: model, language: language}
}

func receiptSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":        map[string]any{"type": "string", "enum": []string{domain.RecordFuel, domain.RecordService, domain.RecordOther}},
			"date":        map[string]any{"type": "string", "description": "YYYY-MM-DD"},
			"cost":        map[string]any{"type": "number"},
			"liters":      map[string]any{"type": "number"},
			"mileage":     map[string]any{"type": "number"},
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"type"},
	}
}

func (s *ReceiptService) prompt(in ReceiptInput) string {
	var b strings.Builder
	if len(in.Image) > 0 {
		b.WriteString("Read this motorcycle-related receipt.")
	} else {
		fmt.Fprintf(&b, "A rider described an expense: %q.", in.Text)
	}
	b.WriteString(" Decide whether it is fuel, a service or another expense and return JSON with")
	b.WriteString(" type (fuel, service or other), date (YYYY-MM-DD), total cost, liters for fuel,")
	b.WriteString(" odometer mileage in km if shown, and a short description")
	fmt.Fprintf(&b, " in %s. Omit fields you cannot read.", LanguageName(s.language))
	return b.String()
}

// Extract returns a record awaiting the rider's confirmation. Images are
// downscaled before they are sent or stored.
func (s *ReceiptService) Extract(ctx context.Context, in ReceiptInput) (*domain.PendingRecord, error) {
	in.Text = strings.TrimSpace(in.Text)
	if len(in.Image) == 0 && in.Text == "" {
		return nil, fmt.Errorf("%w: an image or a text is required", domain.ErrInvalidInput)
	}

	req := ports.GenerationRequest{
		Model:      s.model,
		Schema:     receiptSchema(),
		SchemaName: "receipt",
	}

	var receiptImage string
	if len(in.Image) > 0 {
		small, err := imaging.Downscale(in.Image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		req.Images = []ports.InlineImage{{MIMEType: "image/jpeg", Data: small}}
		receiptImage = imaging.DataURL(small)
	}
	req.Prompt = s.prompt(in)

	resp, err := s.generate(ctx, "receipt", req)
	if err != nil {
		return nil, fmt.Errorf("extract receipt: %w", err)
	}

	rec, err := parsePending(resp.Text)
	if err != nil {
		return nil, err
	}
	rec.ReceiptImage = receiptImage
	return rec, nil
}

func parsePending(text string) (*domain.PendingRecord, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	var rec domain.PendingRecord
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &rec); err != nil {
		return nil, domain.NewGenerationError(domain.GenerationTransport, fmt.Errorf("receipt response is not JSON: %w", err))
	}
	switch rec.Type {
	case domain.RecordFuel, domain.RecordService:
	default:
		rec.Type = domain.RecordOther
	}
	return &rec, nil
}
