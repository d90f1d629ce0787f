package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carson-networks/budget-engine/internal/logging"
)

type storagePinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Storage storagePinger
}

func NewHandler(s storagePinger) Handler {
	return Handler{Storage: s}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	stopTimer := logData.AddTiming("pingMs")
	err := h.Storage.Ping(req.Context())
	stopTimer()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return fmt.Errorf("status: storage unreachable: %w", err)
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
