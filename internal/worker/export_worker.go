package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"myfinance/internal/amqp"
	"myfinance/internal/core"
	"myfinance/internal/log"
	"myfinance/internal/services"
	"myfinance/internal/sheets"
)

// SnapshotSource loads everything an export needs for one account.
type SnapshotSource interface {
	Snapshot(ctx context.Context, account core.AccountKey, cutoff core.Date) (services.Snapshot, error)
}

// AccountLister enumerates the accounts covered by a full export.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]core.AccountKey, error)
}

// ExportWorker mirrors account ledgers into spreadsheet tabs. Events trigger
// a rewrite of one account; the periodic pass rewrites every account so that
// lost messages heal on the next tick.
type ExportWorker struct {
	source      SnapshotSource
	accounts    AccountLister
	writer      sheets.Writer
	prefix      string
	concurrency int
	logger      *log.Logger
}

func NewExportWorker(source SnapshotSource, accounts AccountLister, writer sheets.Writer, prefix string, logger *log.Logger) *ExportWorker {
	if logger == nil {
		logger = log.New(log.Config{Component: log.ComponentWorker})
	}
	return &ExportWorker{
		source:      source,
		accounts:    accounts,
		writer:      writer,
		prefix:      prefix,
		concurrency: 4,
		logger:      logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent exports the account named by ev. Returning an error makes
// the consumer requeue the message.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldAccount, ev.AccountKey,
		log.FieldEntity, ev.Entity,
		log.FieldOperation, ev.Op,
		log.FieldRecordID, ev.ID)
	return w.ExportAccount(ctx, core.AccountKey(ev.AccountKey))
}

// ExportAccount rewrites the tabs of one account.
func (w *ExportWorker) ExportAccount(ctx context.Context, account core.AccountKey) error {
	start := time.Now()
	snap, err := w.source.Snapshot(ctx, account, core.Date{})
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	tabs := sheets.BuildTabs(w.prefix, snap)
	if err := w.writer.WriteTabs(ctx, tabs); err != nil {
		return fmt.Errorf("write tabs: %w", err)
	}
	w.logger.InfoContext(ctx, "Exported account",
		log.FieldAccount, account.String(),
		log.FieldOperation, log.OpExport,
		"expenses", len(snap.Expenses),
		"investments", len(snap.Investments),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// ExportAll rewrites every known account. A failing account does not stop
// the others; all failures are returned joined.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	accounts, err := w.accounts.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, account := range accounts {
		g.Go(func() error {
			if err := w.ExportAccount(gctx, account); err != nil {
				w.logger.ErrorContext(gctx, "Account export failed",
					log.FieldAccount, account.String(), log.FieldError, err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("account %s: %w", account, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	w.logger.InfoContext(ctx, "Full export completed",
		log.FieldCount, len(accounts), "failed", len(errs))
	return errors.Join(errs...)
}

// Run performs a full export immediately and then every interval until ctx
// is done.
func (w *ExportWorker) Run(ctx context.Context, interval time.Duration) {
	if err := w.ExportAll(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup export failed", log.FieldError, err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ExportAll(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic export failed", log.FieldError, err)
			}
		}
	}
}
