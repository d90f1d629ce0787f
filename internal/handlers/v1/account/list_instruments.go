package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// ListInstrumentsOutput is the Huma output for listing funding instruments.
type ListInstrumentsOutput struct {
	Body struct {
		Instruments []Instrument `json:"instruments" doc:"All funding instruments"`
	}
}

type instrumentLister interface {
	ListInstruments(ctx context.Context) ([]ledger.FundingInstrument, error)
}

// ListInstrumentsHandler handles GET /v1/instruments.
type ListInstrumentsHandler struct {
	AccountService instrumentLister
}

// NewListInstrumentsHandler creates a new ListInstrumentsHandler.
func NewListInstrumentsHandler(svc instrumentLister) *ListInstrumentsHandler {
	return &ListInstrumentsHandler{AccountService: svc}
}

// Register registers the list instruments endpoint with the Huma API.
func (h *ListInstrumentsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-instruments",
		Method:      http.MethodGet,
		Path:        "/v1/instruments",
		Summary:     "List funding instruments",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *ListInstrumentsHandler) handle(ctx context.Context, _ *struct{}) (*ListInstrumentsOutput, error) {
	logData := logging.GetLogData(ctx)

	instruments, err := h.AccountService.ListInstruments(ctx)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list instruments", err)
	}

	if logData != nil {
		logData.AddData("instrumentCount", len(instruments))
	}

	out := &ListInstrumentsOutput{}
	out.Body.Instruments = make([]Instrument, len(instruments))
	for i, inst := range instruments {
		out.Body.Instruments[i] = instrumentFromLedger(inst)
	}
	return out, nil
}
