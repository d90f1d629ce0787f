package rule

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// OccurrencesInput is the Huma input for enumerating a rule's occurrences.
type OccurrencesInput struct {
	ID   string `path:"id" format:"uuid" doc:"Rule UUID"`
	From string `query:"from" format:"date" required:"true" doc:"Window start (YYYY-MM-DD), inclusive"`
	To   string `query:"to" format:"date" required:"true" doc:"Window end (YYYY-MM-DD), inclusive"`
}

// OccurrencesOutput is the Huma output for enumerating occurrences.
type OccurrencesOutput struct {
	Body struct {
		Occurrences []string `json:"occurrences" doc:"Occurrence dates (YYYY-MM-DD) in ascending order"`
	}
}

type occurrenceLister interface {
	Occurrences(ctx context.Context, id uuid.UUID, from, to time.Time) ([]time.Time, error)
}

// OccurrencesHandler handles GET /v1/rule/{id}/occurrences.
type OccurrencesHandler struct {
	RuleService occurrenceLister
	Now         handlerutil.Clock
}

// NewOccurrencesHandler creates a new OccurrencesHandler.
func NewOccurrencesHandler(svc occurrenceLister, now handlerutil.Clock) *OccurrencesHandler {
	return &OccurrencesHandler{RuleService: svc, Now: now}
}

// Register registers the occurrences endpoint with the Huma API.
func (h *OccurrencesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "rule-occurrences",
		Method:      http.MethodGet,
		Path:        "/v1/rule/{id}/occurrences",
		Summary:     "List occurrences in a window",
		Description: "Enumerates the rule's occurrences between from and to without materializing them.",
		Tags:        []string{"Rules"},
	}, h.handle)
}

func (h *OccurrencesHandler) handle(ctx context.Context, input *OccurrencesInput) (*OccurrencesOutput, error) {
	logData := logging.GetLogData(ctx)
	loc := h.Now().Location()

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	from, err := handlerutil.ParseDate("from", input.From, loc)
	if err != nil {
		return nil, err
	}
	to, err := handlerutil.ParseDate("to", input.To, loc)
	if err != nil {
		return nil, err
	}

	occurrences, err := h.RuleService.Occurrences(ctx, id, from, to)
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to list occurrences")
	}

	if logData != nil {
		logData.AddData("ruleID", id.String())
		logData.AddData("occurrenceCount", len(occurrences))
	}

	out := &OccurrencesOutput{}
	out.Body.Occurrences = make([]string, len(occurrences))
	for i, o := range occurrences {
		out.Body.Occurrences[i] = handlerutil.FormatDate(o)
	}
	return out, nil
}
