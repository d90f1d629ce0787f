package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountBody is the request body fields for creating an account.
type CreateAccountBody struct {
	Name     string `json:"name" minLength:"1" doc:"Account name"`
	Type     string `json:"type" enum:"cash,bank,credit,investment" doc:"Account type"`
	Currency string `json:"currency,omitempty" doc:"ISO 4217 currency code, defaults to the configured currency"`
}

// CreateAccountOutput is the response for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

// accountCreator is the interface for creating accounts.
type accountCreator interface {
	CreateAccount(ctx context.Context, account ledger.Account) (ledger.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create an account",
		Description: "Creates a new account with a zero balance. Balances are derived from the ledger afterwards.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createAccountMs")
	}
	created, err := h.AccountService.CreateAccount(ctx, ledger.Account{
		Name:     input.Body.Name,
		Type:     ledger.AccountType(input.Body.Type),
		Currency: input.Body.Currency,
	})
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to create account")
	}

	if logData != nil {
		logData.AddData("accountID", created.ID.String())
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   accountFromLedger(created),
	}, nil
}
