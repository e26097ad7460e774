package gemini

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// Classify maps an SDK error to a domain.GenerationError.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ge *domain.GenerationError
	if errors.As(err, &ge) {
		return err
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var p *genai.APIError
		if !errors.As(err, &p) || p == nil {
			return domain.NewGenerationError(domain.GenerationTransport, err)
		}
		apiErr = *p
	}
	return domain.NewGenerationError(kindOf(apiErr.Code, apiErr.Message), err)
}

func kindOf(code int, message string) domain.GenerationErrorKind {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "requested entity was not found"),
		strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "api_key_invalid"),
		code == http.StatusUnauthorized:
		return domain.GenerationCredentialInvalid
	case strings.Contains(msg, "billing"), code == http.StatusPaymentRequired:
		return domain.GenerationBilling
	case code == http.StatusTooManyRequests, strings.Contains(msg, "resource_exhausted"):
		return domain.GenerationQuota
	case code == http.StatusForbidden:
		return domain.GenerationCredentialInvalid
	default:
		return domain.GenerationTransport
	}
}
