package rule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// UpdateRuleStatusInput is the Huma input for pausing, resuming or cancelling a rule.
type UpdateRuleStatusInput struct {
	ID   string `path:"id" format:"uuid" doc:"Rule UUID"`
	Body struct {
		Status string `json:"status" enum:"active,paused,cancelled" doc:"New rule status"`
	}
}

// UpdateRuleStatusOutput is the Huma output for updating a rule's status.
type UpdateRuleStatusOutput struct {
	Body Rule
}

type ruleStatusUpdater interface {
	UpdateRuleStatus(ctx context.Context, id uuid.UUID, status ledger.RuleStatus) (ledger.RecurrenceRule, error)
}

// UpdateRuleStatusHandler handles PUT /v1/rule/{id}/status.
type UpdateRuleStatusHandler struct {
	RuleService ruleStatusUpdater
}

// NewUpdateRuleStatusHandler creates a new UpdateRuleStatusHandler.
func NewUpdateRuleStatusHandler(svc ruleStatusUpdater) *UpdateRuleStatusHandler {
	return &UpdateRuleStatusHandler{RuleService: svc}
}

// Register registers the update rule status endpoint with the Huma API.
func (h *UpdateRuleStatusHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-rule-status",
		Method:      http.MethodPut,
		Path:        "/v1/rule/{id}/status",
		Summary:     "Update rule status",
		Description: "Pauses, resumes or cancels a rule. Cancelled rules cannot be reactivated.",
		Tags:        []string{"Rules"},
	}, h.handle)
}

func (h *UpdateRuleStatusHandler) handle(ctx context.Context, input *UpdateRuleStatusInput) (*UpdateRuleStatusOutput, error) {
	logData := logging.GetLogData(ctx)

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	updated, err := h.RuleService.UpdateRuleStatus(ctx, id, ledger.RuleStatus(input.Body.Status))
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to update rule status")
	}

	if logData != nil {
		logData.AddData("ruleID", id.String())
		logData.AddData("ruleStatus", input.Body.Status)
	}

	return &UpdateRuleStatusOutput{Body: fromLedger(updated)}, nil
}
