package settlement

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// Payment is the API response model for one projected settlement payment.
type Payment struct {
	InstrumentID   string `json:"instrumentId" doc:"Funding instrument UUID"`
	InstrumentName string `json:"instrumentName" doc:"Funding instrument name"`
	Kind           string `json:"kind" doc:"credit_card or direct_debit"`
	AccountID      string `json:"accountId" doc:"Account the payment is drawn from"`
	AccountName    string `json:"accountName,omitempty" doc:"Name of the drawn account"`
	Amount         string `json:"amount" doc:"Decimal amount"`
	Display        string `json:"display" doc:"Amount formatted in the account currency"`
	BillingDay     int    `json:"billingDay" doc:"Debit day of month"`
	BillingDate    string `json:"billingDate" doc:"Debit date (YYYY-MM-DD)"`
}

// UpcomingResponse is the response body for the upcoming settlement projection.
type UpcomingResponse struct {
	CurrentMonth      []Payment `json:"currentMonth" doc:"Payments still due this month"`
	NextMonth         []Payment `json:"nextMonth" doc:"Payments due next month"`
	TotalCurrentMonth string    `json:"totalCurrentMonth" doc:"Sum of this month's payments"`
	TotalNextMonth    string    `json:"totalNextMonth" doc:"Sum of next month's payments"`
}

// UpcomingOutput is the Huma output for the upcoming settlement projection.
type UpcomingOutput struct {
	Body UpcomingResponse
}

type upcomingProjector interface {
	Upcoming(ctx context.Context, now time.Time) (ledger.SettlementProjection, error)
}

// UpcomingHandler handles GET /v1/settlements/upcoming.
type UpcomingHandler struct {
	SettlementService upcomingProjector
	Now               handlerutil.Clock
}

// NewUpcomingHandler creates a new UpcomingHandler.
func NewUpcomingHandler(svc upcomingProjector, now handlerutil.Clock) *UpcomingHandler {
	return &UpcomingHandler{SettlementService: svc, Now: now}
}

// Register registers the upcoming settlements endpoint with the Huma API.
func (h *UpcomingHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "upcoming-settlements",
		Method:      http.MethodGet,
		Path:        "/v1/settlements/upcoming",
		Summary:     "Upcoming settlements",
		Description: "Projects one aggregated payment per cycle-billed instrument for this month and next month.",
		Tags:        []string{"Settlements"},
	}, h.handle)
}

func toPayments(payments []ledger.ScheduledPayment) []Payment {
	out := make([]Payment, len(payments))
	for i, p := range payments {
		out[i] = Payment{
			InstrumentID:   p.InstrumentID.String(),
			InstrumentName: p.InstrumentName,
			Kind:           string(p.Kind),
			AccountID:      p.AccountID.String(),
			AccountName:    p.AccountName,
			Amount:         p.Amount.String(),
			Display:        p.Display,
			BillingDay:     p.BillingDay,
			BillingDate:    handlerutil.FormatDate(p.BillingDate),
		}
	}
	return out
}

func (h *UpcomingHandler) handle(ctx context.Context, _ *struct{}) (*UpcomingOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("upcomingSettlementsMs")
	}
	projection, err := h.SettlementService.Upcoming(ctx, h.Now())
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to project settlements", err)
	}

	return &UpcomingOutput{Body: UpcomingResponse{
		CurrentMonth:      toPayments(projection.CurrentMonth),
		NextMonth:         toPayments(projection.NextMonth),
		TotalCurrentMonth: projection.TotalCurrentMonth.String(),
		TotalNextMonth:    projection.TotalNextMonth.String(),
	}}, nil
}
