package balance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/balance"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// AccountBalance is one recomputed account balance.
type AccountBalance struct {
	ID      string `json:"id" doc:"Account UUID"`
	Name    string `json:"name" doc:"Account name"`
	Balance string `json:"balance" doc:"Decimal balance"`
	Display string `json:"display" doc:"Balance formatted in the account currency"`
}

// RecomputeResponse is the response body for a balance recompute.
type RecomputeResponse struct {
	Accounts []AccountBalance `json:"accounts" doc:"Every account with its rebuilt balance"`
	Dangling []string         `json:"dangling" doc:"Transactions with a leg skipped for a missing account or instrument"`
}

// RecomputeOutput is the Huma output for a balance recompute.
type RecomputeOutput struct {
	Body RecomputeResponse
}

type balanceRecomputer interface {
	Recompute(ctx context.Context) (balance.Result, error)
}

// RecomputeHandler handles POST /v1/balances/recompute.
type RecomputeHandler struct {
	BalanceService balanceRecomputer
}

// NewRecomputeHandler creates a new RecomputeHandler.
func NewRecomputeHandler(svc balanceRecomputer) *RecomputeHandler {
	return &RecomputeHandler{BalanceService: svc}
}

// Register registers the balance recompute endpoint with the Huma API.
func (h *RecomputeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "recompute-balances",
		Method:      http.MethodPost,
		Path:        "/v1/balances/recompute",
		Summary:     "Recompute balances",
		Description: "Rebuilds every account balance from the full ledger.",
		Tags:        []string{"Balances"},
	}, h.handle)
}

func (h *RecomputeHandler) handle(ctx context.Context, _ *struct{}) (*RecomputeOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("recomputeBalancesMs")
	}
	result, err := h.BalanceService.Recompute(ctx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to recompute balances", err)
	}

	if logData != nil {
		logData.AddData("accountCount", len(result.Accounts))
		logData.AddData("danglingCount", len(result.Dangling))
	}

	resp := RecomputeResponse{
		Accounts: make([]AccountBalance, len(result.Accounts)),
		Dangling: make([]string, len(result.Dangling)),
	}
	for i, acc := range result.Accounts {
		resp.Accounts[i] = AccountBalance{
			ID:      acc.ID.String(),
			Name:    acc.Name,
			Balance: acc.Balance.String(),
			Display: ledger.FormatAmount(acc.Balance, acc.Currency),
		}
	}
	for i, id := range result.Dangling {
		resp.Dangling[i] = id.String()
	}
	return &RecomputeOutput{Body: resp}, nil
}
