package recurring

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/logging"
	"github.com/carson-networks/budget-engine/internal/service"
)

// RunBody is the optional request body for triggering the recurring processor.
type RunBody struct {
	Force bool `json:"force,omitempty" doc:"Run even when the last run is inside the cooldown window"`
}

// RunInput is the Huma input for triggering the recurring processor.
type RunInput struct {
	Body *RunBody
}

// RunResponse is the response body for a recurring run.
type RunResponse struct {
	Ran       bool `json:"ran" doc:"False when the cooldown window suppressed the run"`
	Processed int  `json:"processed" doc:"Active rules examined"`
	Created   int  `json:"created" doc:"Transactions materialized"`
	Errors    int  `json:"errors" doc:"Rules that failed, plus one if settlement posting failed"`
}

// RunOutput is the Huma output for a recurring run.
type RunOutput struct {
	Body RunResponse
}

type recurringRunner interface {
	Run(ctx context.Context, now time.Time) (service.RunResult, error)
	StartupCheck(ctx context.Context, now time.Time) (service.RunResult, bool, error)
}

// RunHandler handles POST /v1/recurring/run.
type RunHandler struct {
	RecurringService recurringRunner
	Now              handlerutil.Clock
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(svc recurringRunner, now handlerutil.Clock) *RunHandler {
	return &RunHandler{RecurringService: svc, Now: now}
}

// Register registers the recurring run endpoint with the Huma API.
func (h *RunHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "run-recurring",
		Method:      http.MethodPost,
		Path:        "/v1/recurring/run",
		Summary:     "Run recurring processor",
		Description: "Materializes today's occurrence of every active rule, then posts due settlements. Without force the run honors the cooldown window.",
		Tags:        []string{"Recurring"},
	}, h.handle)
}

func (h *RunHandler) handle(ctx context.Context, input *RunInput) (*RunOutput, error) {
	logData := logging.GetLogData(ctx)
	now := h.Now()

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("recurringRunMs")
	}
	var (
		result service.RunResult
		ran    = true
		err    error
	)
	if input.Body != nil && input.Body.Force {
		result, err = h.RecurringService.Run(ctx, now)
	} else {
		result, ran, err = h.RecurringService.StartupCheck(ctx, now)
	}
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "recurring run failed")
	}

	if logData != nil {
		logData.AddData("ran", ran)
		logData.AddData("created", result.Created)
		logData.AddData("errors", result.Errors)
	}

	return &RunOutput{Body: RunResponse{
		Ran:       ran,
		Processed: result.Processed,
		Created:   result.Created,
		Errors:    result.Errors,
	}}, nil
}
