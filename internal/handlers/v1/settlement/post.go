package settlement

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/logging"
	"github.com/carson-networks/budget-engine/internal/service"
)

// PostOutput is the Huma output for posting due settlements.
type PostOutput struct {
	Body service.PostResult
}

type settlementPoster interface {
	PostDue(ctx context.Context, now time.Time) (service.PostResult, error)
}

// PostHandler handles POST /v1/settlements/post.
type PostHandler struct {
	SettlementService settlementPoster
	Now               handlerutil.Clock
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc settlementPoster, now handlerutil.Clock) *PostHandler {
	return &PostHandler{SettlementService: svc, Now: now}
}

// Register registers the post settlements endpoint with the Huma API.
func (h *PostHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "post-settlements",
		Method:      http.MethodPost,
		Path:        "/v1/settlements/post",
		Summary:     "Post due settlements",
		Description: "Aggregates every pending charge whose settlement date has arrived into settlement entries. Posting twice is a no-op.",
		Tags:        []string{"Settlements"},
	}, h.handle)
}

func (h *PostHandler) handle(ctx context.Context, _ *struct{}) (*PostOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("postSettlementsMs")
	}
	result, err := h.SettlementService.PostDue(ctx, h.Now())
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to post settlements")
	}

	if logData != nil {
		logData.AddData("posted", result.Posted)
		logData.AddData("created", result.Created)
	}

	return &PostOutput{Body: result}, nil
}
