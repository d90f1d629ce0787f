package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-engine/internal/handlers/v1/account"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/balance"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/handlerutil"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/recurring"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/rule"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/settlement"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/status"
	"github.com/carson-networks/budget-engine/internal/handlers/v1/transaction"
	"github.com/carson-networks/budget-engine/internal/logging"
	"github.com/carson-networks/budget-engine/internal/service"
	"github.com/carson-networks/budget-engine/internal/storage"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Storage  *storage.Storage
	Location *time.Location
}

type registrar interface {
	Register(api huma.API)
}

// Handler builds the router with /status and every v1 operation.
func (r *Rest) Handler() http.Handler {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	now := handlerutil.SystemClock(loc)

	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Budget Engine API", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	svc := r.Service
	handlers := []registrar{
		account.NewCreateAccountHandler(svc.Account),
		account.NewListAccountsHandler(svc.Account),
		account.NewCreateInstrumentHandler(svc.Account),
		account.NewListInstrumentsHandler(svc.Account),
		transaction.NewCreateTransactionHandler(svc.Transaction, now),
		transaction.NewDeleteTransactionHandler(svc.Transaction, now),
		transaction.NewListTransactionsHandler(svc.Transaction),
		rule.NewCreateRuleHandler(svc.Rule, now),
		rule.NewListRulesHandler(svc.Rule),
		rule.NewUpdateRuleStatusHandler(svc.Rule),
		rule.NewNextOccurrenceHandler(svc.Rule, now),
		rule.NewOccurrencesHandler(svc.Rule, now),
		recurring.NewRunHandler(svc.Recurring, now),
		settlement.NewSettlementDateHandler(svc.Settlement, now),
		settlement.NewUpcomingHandler(svc.Settlement, now),
		settlement.NewPostHandler(svc.Settlement, now),
		balance.NewRecomputeHandler(svc.Balance),
	}
	for _, h := range handlers {
		h.Register(api)
	}

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests and
// returns once they are done. Listen failures are returned immediately.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("addr", listener.Addr().String()).Info("HttpServer.Serve.listening")
	err = server.Serve(listener)
	if !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.serve error")
		return err
	}

	<-drained
	r.Logger.Info("HttpServer.Serve.stopped")
	return nil
}
