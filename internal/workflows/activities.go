package workflows

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// Analyzer produces and stores a maintenance analysis.
type Analyzer interface {
	Analyze(ctx context.Context, bikeID string) (*domain.MaintenanceAnalysis, error)
}

// AnalysisActivities are the activities of MaintenanceAnalysisWorkflow.
type AnalysisActivities struct {
	Analyzer Analyzer
}

// AnalyzeBike generates the analysis. Generation failures and unknown bikes
// are not retried.
func (a *AnalysisActivities) AnalyzeBike(ctx context.Context, bikeID string) (string, error) {
	res, err := a.Analyzer.Analyze(ctx, bikeID)
	if err != nil {
		var gerr *domain.GenerationError
		if errors.As(err, &gerr) {
			return "", temporal.NewNonRetryableApplicationError(gerr.Error(), string(gerr.Kind), err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return "", temporal.NewNonRetryableApplicationError(err.Error(), "not_found", err)
		}
		return "", err
	}
	activity.GetLogger(ctx).Info("analysis stored", "bikeID", bikeID, "analysisID", res.ID)
	return res.ID, nil
}
