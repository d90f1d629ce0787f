package rule

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// NextOccurrenceInput is the Huma input for querying a rule's next occurrence.
type NextOccurrenceInput struct {
	ID        string `path:"id" format:"uuid" doc:"Rule UUID"`
	Reference string `query:"reference" format:"date" doc:"Earliest acceptable date (YYYY-MM-DD), defaults to today"`
}

// NextOccurrenceResponse is the response body for a next-occurrence query.
type NextOccurrenceResponse struct {
	Next string `json:"next,omitempty" doc:"Next occurrence (YYYY-MM-DD), absent when the rule has ended"`
	Done bool   `json:"done" doc:"True when the rule produces no further occurrences"`
}

// NextOccurrenceOutput is the Huma output for a next-occurrence query.
type NextOccurrenceOutput struct {
	Body NextOccurrenceResponse
}

type nextOccurrenceFinder interface {
	NextOccurrence(ctx context.Context, id uuid.UUID, reference time.Time) (time.Time, bool, error)
}

// NextOccurrenceHandler handles GET /v1/rule/{id}/next.
type NextOccurrenceHandler struct {
	RuleService nextOccurrenceFinder
	Now         handlerutil.Clock
}

// NewNextOccurrenceHandler creates a new NextOccurrenceHandler.
func NewNextOccurrenceHandler(svc nextOccurrenceFinder, now handlerutil.Clock) *NextOccurrenceHandler {
	return &NextOccurrenceHandler{RuleService: svc, Now: now}
}

// Register registers the next occurrence endpoint with the Huma API.
func (h *NextOccurrenceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "rule-next-occurrence",
		Method:      http.MethodGet,
		Path:        "/v1/rule/{id}/next",
		Summary:     "Next occurrence",
		Description: "Returns the rule's first occurrence after its last materialized date that is on or after the reference date.",
		Tags:        []string{"Rules"},
	}, h.handle)
}

func (h *NextOccurrenceHandler) handle(ctx context.Context, input *NextOccurrenceInput) (*NextOccurrenceOutput, error) {
	logData := logging.GetLogData(ctx)
	now := h.Now()

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	reference := ledger.StartOfDay(now)
	if input.Reference != "" {
		if reference, err = handlerutil.ParseDate("reference", input.Reference, now.Location()); err != nil {
			return nil, err
		}
	}

	next, ok, err := h.RuleService.NextOccurrence(ctx, id, reference)
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to compute next occurrence")
	}

	if logData != nil {
		logData.AddData("ruleID", id.String())
	}

	out := &NextOccurrenceOutput{Body: NextOccurrenceResponse{Done: !ok}}
	if ok {
		out.Body.Next = handlerutil.FormatDate(next)
	}
	return out, nil
}
