package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/motospirit/internal/core/domain"
)

// TaskQueue is the default queue the analysis worker listens on.
const TaskQueue = "maintenance-analysis"

// WorkflowID is unique per request; redelivered queue messages map onto the
// running execution.
func WorkflowID(req *domain.AnalysisRequest) string {
	return "analysis-" + req.RequestID
}

// MaintenanceAnalysisWorkflow runs one queued analysis request. The service
// publishes the ready event itself once the analysis is stored.
func MaintenanceAnalysisWorkflow(ctx workflow.Context, req domain.AnalysisRequest) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting maintenance analysis", "bikeID", req.BikeID, "requestID", req.RequestID)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 3 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: 5 * time.Second,
			MaximumAttempts: 2,
		},
	})

	var a *AnalysisActivities
	var analysisID string
	if err := workflow.ExecuteActivity(ctx, a.AnalyzeBike, req.BikeID).Get(ctx, &analysisID); err != nil {
		logger.Warn("maintenance analysis failed", "bikeID", req.BikeID, "error", err)
		return "", err
	}

	logger.Info("Maintenance analysis completed", "analysisID", analysisID)
	return analysisID, nil
}
