package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-engine/internal/ledger"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// mockTransactionCreator is a mock for transactionCreator.
type mockTransactionCreator struct {
	mock.Mock
}

func (m *mockTransactionCreator) CreateTransaction(ctx context.Context, tx ledger.Transaction, now time.Time) (ledger.Transaction, error) {
	args := m.Called(ctx, tx, now)
	created, _ := args.Get(0).(ledger.Transaction)
	return created, args.Error(1)
}

// newTestAPI registers the handler against a humatest API and returns it.
func newTestAPI(t *testing.T, svc transactionCreator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateTransactionHandler(svc, fixedClock).Register(api)
	return api
}

// -- parseCreateTransactionInput unit tests --

func TestParseCreateTransactionInput_ValidInput(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	instrumentID := uuid.Must(uuid.NewV4())

	tx, err := parseCreateTransactionInput(&CreateTransactionInput{
		Body: CreateTransactionBody{
			Type:         "expense",
			Amount:       "123.45",
			Date:         "2025-01-15",
			Description:  "Groceries",
			AccountID:    accountID.String(),
			InstrumentID: instrumentID.String(),
		},
	}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, ledger.TransactionTypeExpense, tx.Type)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, accountID, tx.AccountID)
	assert.Equal(t, instrumentID, tx.InstrumentID)
	assert.Equal(t, uuid.Nil, tx.SourceAccountID)
}

func TestParseCreateTransactionInput_DefaultsDateToToday(t *testing.T) {
	tx, err := parseCreateTransactionInput(&CreateTransactionInput{
		Body: CreateTransactionBody{Type: "income", Amount: "5"},
	}, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), tx.Date)
}

// -- HTTP integration tests (full Huma stack via humatest) --

func TestHTTP_CreateTransaction_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())
	instrumentID := uuid.Must(uuid.NewV4())
	settlementDate := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	created := ledger.Transaction{
		ID:             uuid.Must(uuid.NewV4()),
		Type:           ledger.TransactionTypeExpense,
		Amount:         decimal.RequireFromString("12.50"),
		Date:           time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Description:    "Coffee",
		AccountID:      accountID,
		InstrumentID:   instrumentID,
		Status:         ledger.TransactionStatusPendingSettlement,
		SettlementDate: &settlementDate,
		CreatedAt:      fixedNow,
	}

	mockSvc := new(mockTransactionCreator)
	mockSvc.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx ledger.Transaction) bool {
		return tx.InstrumentID == instrumentID &&
			tx.Amount.Equal(decimal.RequireFromString("12.50")) &&
			tx.Description == "Coffee"
	}), fixedNow).Return(created, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:         "expense",
		Amount:       "12.50",
		Description:  "Coffee",
		AccountID:    accountID.String(),
		InstrumentID: instrumentID.String(),
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Transaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, created.ID.String(), body.ID)
	assert.Equal(t, "pending_settlement", body.Status)
	assert.Equal(t, "2025-08-10", body.SettlementDate)
	assert.Empty(t, body.SourceAccountID)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_MissingRequiredFields(t *testing.T) {
	mockSvc := new(mockTransactionCreator)

	// Huma schema validation rejects the request before the handler runs.
	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", map[string]any{
		"description": "no type or amount",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_UnknownType(t *testing.T) {
	mockSvc := new(mockTransactionCreator)

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:   "gift",
		Amount: "10.00",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_InvalidAccountID(t *testing.T) {
	mockSvc := new(mockTransactionCreator)

	// Huma's format:"uuid" schema validation rejects this before the handler runs.
	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:      "income",
		Amount:    "10.00",
		AccountID: "not-a-uuid",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_InvalidAmount(t *testing.T) {
	mockSvc := new(mockTransactionCreator)

	// Amount is a plain string with no Huma format tag, so parseCreateTransactionInput
	// handles validation and returns 400.
	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:   "income",
		Amount: "not-a-decimal",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateTransaction")
}

func TestHTTP_CreateTransaction_ValidationError(t *testing.T) {
	mockSvc := new(mockTransactionCreator)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: transfers need source and destination accounts", ledger.ErrInvalidTransaction))

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:   "transfer",
		Amount: "10.00",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "transfers need source and destination accounts")
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateTransaction_ServiceError(t *testing.T) {
	mockSvc := new(mockTransactionCreator)
	mockSvc.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable"))

	resp := newTestAPI(t, mockSvc).Post("/v1/transaction", CreateTransactionBody{
		Type:   "income",
		Amount: "10.00",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}
