package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/carson-networks/budget-engine/internal/logging"
)

func main() {
	logger := logging.SetupLogging()

	app := &cli.App{
		Name:  "budget-engine",
		Usage: "recurring transactions, card settlements and balances for a personal ledger",
		Commands: []*cli.Command{
			serveCommand(logger),
			processRecurringCommand(logger),
			postSettlementsCommand(logger),
			settlementsCommand(logger),
			recomputeBalancesCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("budget-engine")
	}
}
