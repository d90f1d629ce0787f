package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/logging"
)

// DeleteTransactionInput is the Huma input for deleting a transaction.
type DeleteTransactionInput struct {
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

// DeleteTransactionResponse is the response body for deleting a transaction.
type DeleteTransactionResponse struct {
	Removed int `json:"removed" doc:"Number of ledger entries removed, including settlement cascades"`
}

// DeleteTransactionOutput is the Huma output for deleting a transaction.
type DeleteTransactionOutput struct {
	Body DeleteTransactionResponse
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, id uuid.UUID, now time.Time) (int, error)
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
	Now                handlerutil.Clock
}

// NewDeleteTransactionHandler creates a new DeleteTransactionHandler.
func NewDeleteTransactionHandler(svc transactionDeleter, now handlerutil.Clock) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc, Now: now}
}

// Register registers the delete transaction endpoint with the Huma API.
func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/v1/transaction/{id}",
		Summary:     "Delete transaction",
		Description: "Deletes a transaction. Deleting a settlement entry also deletes the charges it aggregates; deleting a settled charge shrinks its settlement entry.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	logData := logging.GetLogData(ctx)

	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("deleteTransactionMs")
	}
	removed, err := h.TransactionService.DeleteTransaction(ctx, id, h.Now())
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, handlerutil.ServiceError(err, "failed to delete transaction")
	}

	if logData != nil {
		logData.AddData("removedCount", removed)
	}

	return &DeleteTransactionOutput{Body: DeleteTransactionResponse{Removed: removed}}, nil
}
