// Command ledgerctl reads and writes ledger records directly in the SQLite
// database used by the myfinance server.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"

	"myfinance/internal/cli"
	"myfinance/internal/config"
	"myfinance/internal/core"
	"myfinance/internal/log"
	"myfinance/internal/services"
	"myfinance/internal/storage"
)

var (
	dbPath      = flag.String("db", "", "Path to the SQLite database. Defaults to SQLITE_DB_PATH.")
	accountFlag = flag.String("account", "", "Account key. Defaults to LEDGER_ACCOUNT.")
	timezone    = flag.String("tz", "", "Timezone deciding today's date. Defaults to TIMEZONE.")
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

var commands = []subcommands.Command{
	&newAccountCmd{},
	&expensesCmd{},
	&addExpenseCmd{},
	&investmentsCmd{},
	&addInvestmentCmd{},
	&summaryCmd{},
	&categoriesCmd{},
}

func main() {
	cli.LoadEnvFile()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// ledger is an opened database plus the service on top of it.
type ledger struct {
	svc     *services.LedgerService
	repo    *storage.SQLiteRepository
	account core.AccountKey
}

func (l *ledger) Close() error {
	return l.repo.Close()
}

// openLedger opens the database named by -db or the environment. Commands
// that act on an account require one to be set.
func openLedger(needAccount bool) (*ledger, error) {
	cfg := config.Load()
	p := *dbPath
	if p == "" {
		p = cfg.SQLiteDBPath
	}
	tz := *timezone
	if tz != "" {
		cfg.Timezone = tz
	}

	account := core.AccountKey(*accountFlag)
	if account == "" {
		account = core.AccountKey(os.Getenv("LEDGER_ACCOUNT"))
	}
	if needAccount {
		if err := account.Validate(); err != nil {
			return nil, err
		}
	}

	repo, err := storage.NewSQLiteRepository(p)
	if err != nil {
		return nil, err
	}
	// Logs go to stderr so they never mix with command output.
	level, _ := log.ParseLevel(cfg.LogLevel)
	logger := log.New(log.Config{Level: level, Component: log.ComponentCLI, Output: os.Stderr})
	svc := services.NewLedgerService(repo,
		services.WithLocation(cfg.Location()),
		services.WithLogger(logger))
	return &ledger{svc: svc, repo: repo, account: account}, nil
}
