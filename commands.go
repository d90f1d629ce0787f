package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/carson-networks/budget-engine/api"
	"github.com/carson-networks/budget-engine/internal/config"
	"github.com/carson-networks/budget-engine/internal/ledger"
	"github.com/carson-networks/budget-engine/internal/operator"
	"github.com/carson-networks/budget-engine/internal/service"
	"github.com/carson-networks/budget-engine/internal/storage"
)

// engine is everything a command needs, opened from the environment.
type engine struct {
	env      *config.Config
	storage  *storage.Storage
	operator *operator.OperatorDelegator
	service  *service.Service
}

func openEngine(logger *logrus.Logger) (*engine, error) {
	env, err := config.ProcessEnvironmentVariables()
	if err != nil {
		return nil, err
	}
	logger.SetLevel(env.LogLevel)

	store, err := storage.NewStorage(env)
	if err != nil {
		return nil, err
	}

	op := operator.NewOperatorDelegator(store, logger)
	op.Start()

	svc := service.NewService(store, op, logger, service.Options{
		RecurringCooldown: env.RecurringCooldown,
		DefaultCurrency:   env.DefaultCurrency,
	})

	logger.WithFields(logrus.Fields{
		"storeBackend": env.StoreBackend,
		"timezone":     env.Location().String(),
	}).Info("Engine.Open.ready")

	return &engine{env: env, storage: store, operator: op, service: svc}, nil
}

func (e *engine) close(logger *logrus.Logger) {
	e.operator.Stop()
	if err := e.storage.Close(); err != nil {
		logger.WithError(err).Error("Engine.Close.storage")
	}
}

func (e *engine) now() time.Time {
	return time.Now().In(e.env.Location())
}

func withEngine(logger *logrus.Logger, fn func(ctx context.Context, e *engine) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := openEngine(logger)
		if err != nil {
			return err
		}
		defer e.close(logger)

		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return fn(ctx, e)
	}
}

func serveCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: withEngine(logger, func(ctx context.Context, e *engine) error {
			result, ran, err := e.service.Recurring.StartupCheck(ctx, e.now())
			if err != nil {
				logger.WithError(err).Error("Serve.StartupCheck")
			} else {
				logger.WithFields(logrus.Fields{
					"ran":       ran,
					"processed": result.Processed,
					"created":   result.Created,
					"errors":    result.Errors,
				}).Info("Serve.StartupCheck.complete")
			}

			httpRest := api.Rest{
				Logger:   logger,
				Port:     e.env.HTTPPort,
				Service:  e.service,
				Storage:  e.storage,
				Location: e.env.Location(),
			}
			return httpRest.Serve(ctx)
		}),
	}
}

func processRecurringCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "process-recurring",
		Usage: "materialize today's occurrences of active rules and post due settlements",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "ignore the cooldown window"},
		},
		Action: func(c *cli.Context) error {
			return withEngine(logger, func(ctx context.Context, e *engine) error {
				var (
					result service.RunResult
					ran    = true
					err    error
				)
				if c.Bool("force") {
					result, err = e.service.Recurring.Run(ctx, e.now())
				} else {
					result, ran, err = e.service.Recurring.StartupCheck(ctx, e.now())
				}
				if err != nil {
					return err
				}
				logger.WithFields(logrus.Fields{
					"ran":       ran,
					"processed": result.Processed,
					"created":   result.Created,
					"errors":    result.Errors,
				}).Info("ProcessRecurring.complete")
				return nil
			})(c)
		},
	}
}

func postSettlementsCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "post-settlements",
		Usage: "aggregate charges whose settlement date has arrived",
		Action: withEngine(logger, func(ctx context.Context, e *engine) error {
			result, err := e.service.Settlement.PostDue(ctx, e.now())
			if err != nil {
				return err
			}
			logger.WithFields(logrus.Fields{
				"posted":  result.Posted,
				"created": result.Created,
			}).Info("PostSettlements.complete")
			return nil
		}),
	}
}

func recomputeBalancesCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "recompute-balances",
		Usage: "rebuild every account balance from the ledger",
		Action: withEngine(logger, func(ctx context.Context, e *engine) error {
			result, err := e.service.Balance.Recompute(ctx)
			if err != nil {
				return err
			}
			for _, acc := range result.Accounts {
				logger.WithFields(logrus.Fields{
					"account": acc.Name,
					"balance": ledger.FormatAmount(acc.Balance, acc.Currency),
				}).Info("RecomputeBalances.account")
			}
			logger.WithField("dangling", len(result.Dangling)).Info("RecomputeBalances.complete")
			return nil
		}),
	}
}

func settlementsCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "settlements",
		Usage: "print this month's and next month's card and direct debit payments",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "dump the raw projection at debug level"},
			&cli.StringFlag{Name: "style", Value: "dark", Usage: "glamour style: dark, light, notty or ascii"},
		},
		Action: func(c *cli.Context) error {
			return withEngine(logger, func(ctx context.Context, e *engine) error {
				projection, err := e.service.Settlement.Upcoming(ctx, e.now())
				if err != nil {
					return err
				}
				if c.Bool("verbose") {
					logger.SetLevel(logrus.DebugLevel)
					logger.Debug(spew.Sdump(projection))
				}

				out, err := glamour.Render(settlementsMarkdown(projection), c.String("style"))
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(c.App.Writer, out)
				return err
			})(c)
		},
	}
}

// settlementsMarkdown renders the projection as two markdown tables. Totals
// are given per currency since instruments may draw on accounts in different
// currencies.
func settlementsMarkdown(p ledger.SettlementProjection) string {
	var b strings.Builder
	section := func(title string, payments []ledger.ScheduledPayment) {
		fmt.Fprintf(&b, "## %s\n\n", title)
		if len(payments) == 0 {
			b.WriteString("_No payments._\n\n")
			return
		}
		b.WriteString("| Date | Instrument | Account | Amount |\n|---|---|---|---:|\n")
		for _, pay := range payments {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				pay.BillingDate.Format(time.DateOnly), pay.InstrumentName, pay.AccountName, pay.Display)
		}
		fmt.Fprintf(&b, "\n**Total:** %s\n\n", totalsByCurrency(payments))
	}

	section("This month", p.CurrentMonth)
	section("Next month", p.NextMonth)
	return b.String()
}

func totalsByCurrency(payments []ledger.ScheduledPayment) string {
	sums := map[string]decimal.Decimal{}
	for _, pay := range payments {
		sums[pay.Currency] = sums[pay.Currency].Add(pay.Amount)
	}

	currencies := slices.Sorted(maps.Keys(sums))
	totals := make([]string, len(currencies))
	for i, currency := range currencies {
		totals[i] = ledger.FormatAmount(sums[currency], currency)
	}
	return strings.Join(totals, " + ")
}
