package rule

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// CreateRuleBody is the request body for creating a recurrence rule.
type CreateRuleBody struct {
	Title           string `json:"title" minLength:"1" doc:"Title copied onto generated transactions"`
	Type            string `json:"type" enum:"income,expense,transfer,investment" doc:"Type of the generated transactions"`
	Amount          string `json:"amount" doc:"Positive decimal amount"`
	StartDate       string `json:"startDate" format:"date" doc:"First occurrence (YYYY-MM-DD)"`
	EndDate         string `json:"endDate,omitempty" format:"date" doc:"Last allowed occurrence (YYYY-MM-DD)"`
	Frequency       string `json:"frequency" enum:"daily,weekly,monthly,yearly" doc:"Calendar unit"`
	Interval        int    `json:"interval,omitempty" minimum:"1" doc:"Step multiplier, defaults to 1"`
	DayOfMonth      *int   `json:"dayOfMonth,omitempty" doc:"Anchor day for monthly and yearly rules"`
	DayOfWeek       *int   `json:"dayOfWeek,omitempty" doc:"Anchor weekday for weekly rules, 0=Sunday"`
	MonthOfYear     *int   `json:"monthOfYear,omitempty" doc:"Anchor month for yearly rules"`
	CategoryID      string `json:"categoryId,omitempty" format:"uuid" doc:"Category UUID"`
	AccountID       string `json:"accountId,omitempty" format:"uuid" doc:"Credited account UUID"`
	SourceAccountID string `json:"sourceAccountId,omitempty" format:"uuid" doc:"Debited account UUID for transfers"`
	InstrumentID    string `json:"instrumentId,omitempty" format:"uuid" doc:"Funding instrument UUID"`
}

// CreateRuleInput is the Huma input for creating a recurrence rule.
type CreateRuleInput struct {
	Body CreateRuleBody
}

// CreateRuleOutput is the Huma output for creating a recurrence rule.
type CreateRuleOutput struct {
	Status int
	Body   Rule
}

type ruleCreator interface {
	CreateRule(ctx context.Context, rule ledger.RecurrenceRule) (ledger.RecurrenceRule, error)
}

// CreateRuleHandler handles POST /v1/rule.
type CreateRuleHandler struct {
	RuleService ruleCreator
	Now         handlerutil.Clock
}

// NewCreateRuleHandler creates a new CreateRuleHandler.
func NewCreateRuleHandler(svc ruleCreator, now handlerutil.Clock) *CreateRuleHandler {
	return &CreateRuleHandler{RuleService: svc, Now: now}
}

// Register registers the create rule endpoint with the Huma API.
func (h *CreateRuleHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-rule",
		Method:      http.MethodPost,
		Path:        "/v1/rule",
		Summary:     "Create recurrence rule",
		Description: "Creates an active recurrence rule. Occurrences are materialized by the recurring processor.",
		Tags:        []string{"Rules"},
	}, h.handle)
}

func parseCreateRuleInput(input *CreateRuleInput, loc *time.Location) (ledger.RecurrenceRule, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return ledger.RecurrenceRule{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	rule := ledger.RecurrenceRule{
		Title:       input.Body.Title,
		Type:        ledger.TransactionType(input.Body.Type),
		Amount:      amount,
		Frequency:   ledger.Frequency(input.Body.Frequency),
		Interval:    input.Body.Interval,
		DayOfMonth:  input.Body.DayOfMonth,
		DayOfWeek:   input.Body.DayOfWeek,
		MonthOfYear: input.Body.MonthOfYear,
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	if rule.StartDate, err = handlerutil.ParseDate("startDate", input.Body.StartDate, loc); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	if rule.EndDate, err = handlerutil.ParseOptionalDate("endDate", input.Body.EndDate, loc); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	if rule.CategoryID, err = handlerutil.ParseOptionalID("categoryId", input.Body.CategoryID); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	if rule.AccountID, err = handlerutil.ParseOptionalID("accountId", input.Body.AccountID); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	if rule.SourceAccountID, err = handlerutil.ParseOptionalID("sourceAccountId", input.Body.SourceAccountID); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	if rule.InstrumentID, err = handlerutil.ParseOptionalID("instrumentId", input.Body.InstrumentID); err != nil {
		return ledger.RecurrenceRule{}, err
	}
	return rule, nil
}

func (h *CreateRuleHandler) handle(ctx context.Context, input *CreateRuleInput) (*CreateRuleOutput, error) {
	logData := logging.GetLogData(ctx)

	rule, err := parseCreateRuleInput(input, h.Now().Location())
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createRuleMs")
	}
	created, err := h.RuleService.CreateRule(ctx, rule)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to create rule")
	}

	if logData != nil {
		logData.AddData("ruleID", created.ID.String())
	}

	return &CreateRuleOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(created),
	}, nil
}
