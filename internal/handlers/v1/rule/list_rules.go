package rule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// ListRulesOutput is the Huma output for listing recurrence rules.
type ListRulesOutput struct {
	Body struct {
		Rules []Rule `json:"rules" doc:"All recurrence rules"`
	}
}

type ruleLister interface {
	ListRules(ctx context.Context) ([]ledger.RecurrenceRule, error)
}

// ListRulesHandler handles GET /v1/rules.
type ListRulesHandler struct {
	RuleService ruleLister
}

// NewListRulesHandler creates a new ListRulesHandler.
func NewListRulesHandler(svc ruleLister) *ListRulesHandler {
	return &ListRulesHandler{RuleService: svc}
}

// Register registers the list rules endpoint with the Huma API.
func (h *ListRulesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/v1/rules",
		Summary:     "List recurrence rules",
		Tags:        []string{"Rules"},
	}, h.handle)
}

func (h *ListRulesHandler) handle(ctx context.Context, _ *struct{}) (*ListRulesOutput, error) {
	logData := logging.GetLogData(ctx)

	rules, err := h.RuleService.ListRules(ctx)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list rules", err)
	}

	if logData != nil {
		logData.AddData("ruleCount", len(rules))
	}

	out := &ListRulesOutput{}
	out.Body.Rules = make([]Rule, len(rules))
	for i, r := range rules {
		out.Body.Rules[i] = fromLedger(r)
	}
	return out, nil
}
