package settlement

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
)

// SettlementDateInput is the Huma input for computing a settlement date.
type SettlementDateInput struct {
	Body struct {
		ChargeDate string `json:"chargeDate" format:"date" doc:"Date of the charge (YYYY-MM-DD)"`
		ClosingDay int    `json:"closingDay" doc:"Statement closing day of month"`
		BillingDay int    `json:"billingDay" doc:"Debit day of month"`
	}
}

// SettlementDateOutput is the Huma output for computing a settlement date.
type SettlementDateOutput struct {
	Body struct {
		SettlementDate string `json:"settlementDate" doc:"Date the charge is debited (YYYY-MM-DD)"`
	}
}

type settlementDater interface {
	SettlementDate(chargeDate time.Time, closingDay, billingDay int) (time.Time, error)
}

// SettlementDateHandler handles POST /v1/settlement/date.
type SettlementDateHandler struct {
	SettlementService settlementDater
	Now               handlerutil.Clock
}

// NewSettlementDateHandler creates a new SettlementDateHandler.
func NewSettlementDateHandler(svc settlementDater, now handlerutil.Clock) *SettlementDateHandler {
	return &SettlementDateHandler{SettlementService: svc, Now: now}
}

// Register registers the settlement date endpoint with the Huma API.
func (h *SettlementDateHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "settlement-date",
		Method:      http.MethodPost,
		Path:        "/v1/settlement/date",
		Summary:     "Compute settlement date",
		Description: "Returns the date a charge on a cycle-billed instrument is debited. Charges after the closing day roll into the next cycle.",
		Tags:        []string{"Settlements"},
	}, h.handle)
}

func (h *SettlementDateHandler) handle(_ context.Context, input *SettlementDateInput) (*SettlementDateOutput, error) {
	chargeDate, err := handlerutil.ParseDate("chargeDate", input.Body.ChargeDate, h.Now().Location())
	if err != nil {
		return nil, err
	}

	date, err := h.SettlementService.SettlementDate(chargeDate, input.Body.ClosingDay, input.Body.BillingDay)
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to compute settlement date")
	}

	out := &SettlementDateOutput{}
	out.Body.SettlementDate = handlerutil.FormatDate(date)
	return out, nil
}
