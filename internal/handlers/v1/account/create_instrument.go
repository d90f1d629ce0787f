package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// CreateInstrumentBody is the request body for creating a funding instrument.
type CreateInstrumentBody struct {
	Name       string `json:"name" minLength:"1" doc:"Instrument name"`
	AccountID  string `json:"accountId" format:"uuid" doc:"UUID of the account the instrument draws from"`
	Kind       string `json:"kind" enum:"cash,credit_card,bank_transfer,electronic_money,direct_debit" doc:"Payment method"`
	ClosingDay *int   `json:"closingDay,omitempty" minimum:"1" maximum:"31" doc:"Statement closing day, cycle-billed kinds only"`
	BillingDay *int   `json:"billingDay,omitempty" minimum:"1" maximum:"31" doc:"Debit day, cycle-billed kinds only"`
}

// CreateInstrumentInput is the Huma input for creating a funding instrument.
type CreateInstrumentInput struct {
	Body CreateInstrumentBody
}

// CreateInstrumentOutput is the Huma output for creating a funding instrument.
type CreateInstrumentOutput struct {
	Status int
	Body   Instrument
}

type instrumentCreator interface {
	CreateInstrument(ctx context.Context, instrument ledger.FundingInstrument) (ledger.FundingInstrument, error)
}

// CreateInstrumentHandler handles POST /v1/instrument.
type CreateInstrumentHandler struct {
	AccountService instrumentCreator
}

// NewCreateInstrumentHandler creates a new CreateInstrumentHandler.
func NewCreateInstrumentHandler(svc instrumentCreator) *CreateInstrumentHandler {
	return &CreateInstrumentHandler{AccountService: svc}
}

// Register registers the create instrument endpoint with the Huma API.
func (h *CreateInstrumentHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-instrument",
		Method:      http.MethodPost,
		Path:        "/v1/instrument",
		Summary:     "Create a funding instrument",
		Description: "Binds a payment method to an existing account. Credit cards and direct debits may carry a billing cycle.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *CreateInstrumentHandler) handle(ctx context.Context, input *CreateInstrumentInput) (*CreateInstrumentOutput, error) {
	logData := logging.GetLogData(ctx)

	accountID, err := uuid.FromString(input.Body.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountId", err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createInstrumentMs")
	}
	created, err := h.AccountService.CreateInstrument(ctx, ledger.FundingInstrument{
		Name:       input.Body.Name,
		AccountID:  accountID,
		Kind:       ledger.InstrumentKind(input.Body.Kind),
		ClosingDay: input.Body.ClosingDay,
		BillingDay: input.Body.BillingDay,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to create instrument")
	}

	if logData != nil {
		logData.AddData("instrumentID", created.ID.String())
	}

	return &CreateInstrumentOutput{
		Status: http.StatusCreated,
		Body:   instrumentFromLedger(created),
	}, nil
}
