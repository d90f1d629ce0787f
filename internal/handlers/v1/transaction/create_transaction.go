package transaction

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

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Type            string `json:"type" enum:"income,expense,transfer,investment" doc:"Transaction type"`
	Amount          string `json:"amount" doc:"Non-negative decimal amount"`
	Date            string `json:"date,omitempty" format:"date" doc:"Transaction date (YYYY-MM-DD), defaults to today"`
	Description     string `json:"description,omitempty" doc:"Free-form description"`
	CategoryID      string `json:"categoryId,omitempty" format:"uuid" doc:"Category UUID"`
	AccountID       string `json:"accountId,omitempty" format:"uuid" doc:"Credited account UUID"`
	SourceAccountID string `json:"sourceAccountId,omitempty" format:"uuid" doc:"Debited account UUID for transfers"`
	InstrumentID    string `json:"instrumentId,omitempty" format:"uuid" doc:"Funding instrument UUID"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	CreateTransaction(ctx context.Context, tx ledger.Transaction, now time.Time) (ledger.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
	Now                handlerutil.Clock
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator, now handlerutil.Clock) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc, Now: now}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-transaction",
		Method:      http.MethodPost,
		Path:        "/v1/transaction",
		Summary:     "Create transaction",
		Description: "Records a transaction. Charges on cycle-billed instruments are held as pending until their settlement date.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput, now time.Time) (ledger.Transaction, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return ledger.Transaction{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	date := ledger.StartOfDay(now)
	if input.Body.Date != "" {
		date, err = handlerutil.ParseDate("date", input.Body.Date, now.Location())
		if err != nil {
			return ledger.Transaction{}, err
		}
	}

	tx := ledger.Transaction{
		Type:        ledger.TransactionType(input.Body.Type),
		Amount:      amount,
		Date:        date,
		Description: input.Body.Description,
	}
	if tx.CategoryID, err = handlerutil.ParseOptionalID("categoryId", input.Body.CategoryID); err != nil {
		return ledger.Transaction{}, err
	}
	if tx.AccountID, err = handlerutil.ParseOptionalID("accountId", input.Body.AccountID); err != nil {
		return ledger.Transaction{}, err
	}
	if tx.SourceAccountID, err = handlerutil.ParseOptionalID("sourceAccountId", input.Body.SourceAccountID); err != nil {
		return ledger.Transaction{}, err
	}
	if tx.InstrumentID, err = handlerutil.ParseOptionalID("instrumentId", input.Body.InstrumentID); err != nil {
		return ledger.Transaction{}, err
	}
	return tx, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)
	now := h.Now()

	tx, err := parseCreateTransactionInput(input, now)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	created, err := h.TransactionService.CreateTransaction(ctx, tx, now)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to create transaction")
	}

	if logData != nil {
		logData.AddData("transactionID", created.ID.String())
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   fromLedger(created),
	}, nil
}
