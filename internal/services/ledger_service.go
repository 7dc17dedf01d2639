package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"myfinance/internal/amqp"
	"myfinance/internal/cache"
	"myfinance/internal/core"
	"myfinance/internal/log"
	"myfinance/internal/records"
)

// EventPublisher announces committed ledger changes. *amqp.Client
// implements it.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error
}

// LedgerService applies the ledger rules on top of a record store. Every
// operation checks the account key before touching the store.
type LedgerService struct {
	store     records.Store
	publisher EventPublisher
	lists     cache.Cache[[]string]
	loc       *time.Location
	now       func() time.Time
	logger    *log.Logger
	events    *log.StructuredLogger
}

type Option func(*LedgerService)

// WithPublisher enables best-effort change events.
func WithPublisher(p EventPublisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithCategoryCache caches category lists per account and key.
func WithCategoryCache(c cache.Cache[[]string]) Option {
	return func(s *LedgerService) { s.lists = c }
}

// WithLocation sets the zone that decides the current calendar day.
func WithLocation(loc *time.Location) Option {
	return func(s *LedgerService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *LedgerService) { s.logger = l }
}

func NewLedgerService(store records.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:  store,
		loc:    time.UTC,
		now:    time.Now,
		logger: log.New(log.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.events = log.NewStructuredLogger(s.logger)
	return s
}

// Today is the current calendar day in the service's location.
func (s *LedgerService) Today() core.Date {
	return core.DateOf(s.now().In(s.loc))
}

func (s *LedgerService) storeFailure(ctx context.Context, op string, account core.AccountKey, err error) error {
	s.events.LogError(ctx, "Record store call failed", err, log.ComponentStorage, op,
		log.NewFields().WithRecord(account.String(), "", 0))
	return err
}

func (s *LedgerService) publish(ctx context.Context, account core.AccountKey, entity, op string, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, amqp.NewLedgerEvent(account.String(), entity, op, id)); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldAccount, account.String(),
			log.FieldEntity, entity,
			log.FieldOperation, op,
			log.FieldRecordID, id,
			log.FieldError, err.Error())
	}
}

func (s *LedgerService) loadExpenses(ctx context.Context, account core.AccountKey) ([]core.Expense, error) {
	list, err := s.store.ListExpenses(ctx, account)
	if err != nil {
		return nil, s.storeFailure(ctx, log.OpList, account, fmt.Errorf("list expenses: %w", err))
	}
	return list, nil
}

func (s *LedgerService) loadInvestments(ctx context.Context, account core.AccountKey) ([]core.Investment, error) {
	list, err := s.store.ListInvestments(ctx, account)
	if err != nil {
		return nil, s.storeFailure(ctx, log.OpList, account, fmt.Errorf("list investments: %w", err))
	}
	return list, nil
}

// withToday fills in the filter's reference day when the caller left it out.
func (s *LedgerService) withToday(f core.Filter) core.Filter {
	if f.Today.IsZero() {
		f.Today = s.Today()
	}
	return f
}

// ListExpenses returns the account's expenses passing f, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, account core.AccountKey, f core.Filter) ([]core.Expense, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	all, err := s.loadExpenses(ctx, account)
	if err != nil {
		return nil, err
	}
	return core.FilterExpenses(all, s.withToday(f)), nil
}

// AddExpense records candidate, folding it into an existing expense with the
// same date and categories. A missing date means today. The lookup and the
// write are separate store calls.
func (s *LedgerService) AddExpense(ctx context.Context, account core.AccountKey, candidate core.Expense) (core.MergeResult, error) {
	if err := account.Validate(); err != nil {
		return core.MergeResult{}, err
	}
	if candidate.Date.IsZero() {
		candidate.Date = s.Today()
	}
	candidate.ID = 0
	if err := candidate.Validate(); err != nil {
		return core.MergeResult{}, err
	}

	existing, err := s.loadExpenses(ctx, account)
	if err != nil {
		return core.MergeResult{}, err
	}
	_, res := core.MergeOrInsertExpense(existing, candidate)

	op := amqp.OpCreate
	if res.Merged {
		op = amqp.OpMerge
		if err := s.store.UpdateExpense(ctx, account, res.Expense.ID, res.Expense); err != nil {
			return core.MergeResult{}, s.storeFailure(ctx, log.OpMerge, account, fmt.Errorf("merge expense %d: %w", res.Expense.ID, err))
		}
	} else {
		id, err := s.store.CreateExpense(ctx, account, res.Expense)
		if err != nil {
			return core.MergeResult{}, s.storeFailure(ctx, log.OpCreate, account, fmt.Errorf("create expense: %w", err))
		}
		res.Expense.ID = id
	}

	s.events.LogMutation(ctx, op, log.NewFields().
		WithRecord(account.String(), amqp.EntityExpense, res.Expense.ID).
		WithExpense(res.Expense.Date.String(), candidate.Amount, res.Expense.ExpenseType, res.Merged))
	s.publish(ctx, account, amqp.EntityExpense, op, res.Expense.ID)
	return res, nil
}

// UpdateExpense replaces the stored expense id with e. No merge is applied.
func (s *LedgerService) UpdateExpense(ctx context.Context, account core.AccountKey, id int64, e core.Expense) (core.Expense, error) {
	if err := account.Validate(); err != nil {
		return core.Expense{}, err
	}
	e.ID = id
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if err := s.store.UpdateExpense(ctx, account, id, e); err != nil {
		return core.Expense{}, s.storeFailure(ctx, log.OpUpdate, account, fmt.Errorf("update expense %d: %w", id, err))
	}
	s.events.LogMutation(ctx, log.OpUpdate, log.NewFields().WithRecord(account.String(), amqp.EntityExpense, id))
	s.publish(ctx, account, amqp.EntityExpense, amqp.OpUpdate, id)
	return e, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, account core.AccountKey, id int64) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(ctx, account, id); err != nil {
		return s.storeFailure(ctx, log.OpDelete, account, fmt.Errorf("delete expense %d: %w", id, err))
	}
	s.events.LogMutation(ctx, log.OpDelete, log.NewFields().WithRecord(account.String(), amqp.EntityExpense, id))
	s.publish(ctx, account, amqp.EntityExpense, amqp.OpDelete, id)
	return nil
}

// ListInvestments returns the investments passing f, newest first, each
// flagged with whether it is the latest valuation of its holding as of
// cutoff. The flag is computed over the whole ledger, not the filtered view.
// A zero cutoff means today.
func (s *LedgerService) ListInvestments(ctx context.Context, account core.AccountKey, f core.Filter, cutoff core.Date) ([]core.TaggedInvestment, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	all, err := s.loadInvestments(ctx, account)
	if err != nil {
		return nil, err
	}
	if cutoff.IsZero() {
		cutoff = s.Today()
	}
	used := make(map[int64]bool)
	for _, t := range core.TagInvestments(all, cutoff) {
		if t.UsedForCalculation {
			used[t.ID] = true
		}
	}
	filtered := core.FilterInvestments(all, s.withToday(f))
	out := make([]core.TaggedInvestment, len(filtered))
	for i, inv := range filtered {
		out[i] = core.TaggedInvestment{Investment: inv, UsedForCalculation: used[inv.ID]}
	}
	return out, nil
}

// AddInvestment stores a new valuation. The return value is always derived
// from the current value and the invested amount.
func (s *LedgerService) AddInvestment(ctx context.Context, account core.AccountKey, inv core.Investment) (core.Investment, error) {
	if err := account.Validate(); err != nil {
		return core.Investment{}, err
	}
	if inv.Date.IsZero() {
		inv.Date = s.Today()
	}
	inv.ID = 0
	inv.Recompute()
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	id, err := s.store.CreateInvestment(ctx, account, inv)
	if err != nil {
		return core.Investment{}, s.storeFailure(ctx, log.OpCreate, account, fmt.Errorf("create investment: %w", err))
	}
	inv.ID = id
	s.events.LogMutation(ctx, log.OpCreate, log.NewFields().
		WithRecord(account.String(), amqp.EntityInvestment, id).
		WithInvestment(inv.Date.String(), inv.Mode, inv.Type))
	s.publish(ctx, account, amqp.EntityInvestment, amqp.OpCreate, id)
	return inv, nil
}

func (s *LedgerService) UpdateInvestment(ctx context.Context, account core.AccountKey, id int64, inv core.Investment) (core.Investment, error) {
	if err := account.Validate(); err != nil {
		return core.Investment{}, err
	}
	inv.ID = id
	inv.Recompute()
	if err := inv.Validate(); err != nil {
		return core.Investment{}, err
	}
	if err := s.store.UpdateInvestment(ctx, account, id, inv); err != nil {
		return core.Investment{}, s.storeFailure(ctx, log.OpUpdate, account, fmt.Errorf("update investment %d: %w", id, err))
	}
	s.events.LogMutation(ctx, log.OpUpdate, log.NewFields().WithRecord(account.String(), amqp.EntityInvestment, id))
	s.publish(ctx, account, amqp.EntityInvestment, amqp.OpUpdate, id)
	return inv, nil
}

func (s *LedgerService) DeleteInvestment(ctx context.Context, account core.AccountKey, id int64) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.store.DeleteInvestment(ctx, account, id); err != nil {
		return s.storeFailure(ctx, log.OpDelete, account, fmt.Errorf("delete investment %d: %w", id, err))
	}
	s.events.LogMutation(ctx, log.OpDelete, log.NewFields().WithRecord(account.String(), amqp.EntityInvestment, id))
	s.publish(ctx, account, amqp.EntityInvestment, amqp.OpDelete, id)
	return nil
}

func cacheKey(account core.AccountKey, key string) string {
	return account.String() + "|" + key
}

// CategoryList returns the account's labels for key, or the defaults when
// the list was never stored.
func (s *LedgerService) CategoryList(ctx context.Context, account core.AccountKey, key string) ([]string, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if !core.ValidVocabularyKey(key) {
		return nil, core.ErrInvalidVocabularyKey
	}
	if s.lists != nil {
		if items, ok := s.lists.Get(cacheKey(account, key)); ok {
			return append([]string(nil), items...), nil
		}
	}
	items, found, err := s.store.GetCategoryList(ctx, account, key)
	if err != nil {
		return nil, s.storeFailure(ctx, log.OpRead, account, fmt.Errorf("get category list %s: %w", key, err))
	}
	if !found {
		items, _ = core.DefaultVocabulary(key)
	}
	if s.lists != nil {
		s.lists.Set(cacheKey(account, key), append([]string(nil), items...))
	}
	return items, nil
}

// AddCategory appends label to the list unless it is already present,
// ignoring case. The bool reports whether the list changed.
func (s *LedgerService) AddCategory(ctx context.Context, account core.AccountKey, key, label string) ([]string, bool, error) {
	if err := account.Validate(); err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(label) == "" {
		return nil, false, core.ErrEmptyCategory
	}
	current, err := s.CategoryList(ctx, account, key)
	if err != nil {
		return nil, false, err
	}
	next, changed := core.AddLabel(current, label)
	if !changed {
		return current, false, nil
	}
	if err := s.putList(ctx, account, key, next); err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// PutCategoryList replaces the list for key with items, deduplicated.
func (s *LedgerService) PutCategoryList(ctx context.Context, account core.AccountKey, key string, items []string) ([]string, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if !core.ValidVocabularyKey(key) {
		return nil, core.ErrInvalidVocabularyKey
	}
	clean := core.DedupeLabels(items)
	if len(clean) == 0 {
		return nil, core.ErrEmptyCategory
	}
	if err := s.putList(ctx, account, key, clean); err != nil {
		return nil, err
	}
	return clean, nil
}

func (s *LedgerService) putList(ctx context.Context, account core.AccountKey, key string, items []string) error {
	if err := s.store.PutCategoryList(ctx, account, key, items); err != nil {
		return s.storeFailure(ctx, log.OpUpdate, account, fmt.Errorf("put category list %s: %w", key, err))
	}
	if s.lists != nil {
		s.lists.Delete(cacheKey(account, key))
	}
	s.events.LogMutation(ctx, log.OpUpdate, log.NewFields().WithRecord(account.String(), amqp.EntityCategory, 0))
	s.publish(ctx, account, amqp.EntityCategory, amqp.OpUpdate, 0)
	return nil
}

// InvalidateAccount drops every cached list of account.
func (s *LedgerService) InvalidateAccount(account core.AccountKey) {
	if s.lists != nil {
		s.lists.DeletePrefix(account.String() + "|")
	}
}

// loadBoth fetches expenses and investments concurrently.
func (s *LedgerService) loadBoth(ctx context.Context, account core.AccountKey) ([]core.Expense, []core.Investment, error) {
	var (
		expenses    []core.Expense
		investments []core.Investment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.loadExpenses(gctx, account)
		return err
	})
	g.Go(func() error {
		var err error
		investments, err = s.loadInvestments(gctx, account)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expenses, investments, nil
}

// Summary computes the account totals as of cutoff over the records passing
// f; a zero cutoff means today. The filter always runs in the all-dates
// scope, so only its bounds and category fields narrow the totals.
func (s *LedgerService) Summary(ctx context.Context, account core.AccountKey, f core.Filter, cutoff core.Date) (core.Totals, error) {
	if err := account.Validate(); err != nil {
		return core.Totals{}, err
	}
	if cutoff.IsZero() {
		cutoff = s.Today()
	}
	expenses, investments, err := s.loadBoth(ctx, account)
	if err != nil {
		return core.Totals{}, err
	}
	f.ShowAll = true
	return core.Aggregate(core.FilterExpenses(expenses, f), core.FilterInvestments(investments, f), cutoff), nil
}

// ExpenseBreakdown sums the expenses passing f per label of dimension.
func (s *LedgerService) ExpenseBreakdown(ctx context.Context, account core.AccountKey, f core.Filter, dimension string) ([]core.CategoryAmount, error) {
	list, err := s.ListExpenses(ctx, account, f)
	if err != nil {
		return nil, err
	}
	return core.BreakdownExpenses(list, dimension)
}

// InvestmentBreakdown sums measure over the investments passing f.
func (s *LedgerService) InvestmentBreakdown(ctx context.Context, account core.AccountKey, f core.Filter, dimension, measure string) ([]core.CategoryAmount, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	all, err := s.loadInvestments(ctx, account)
	if err != nil {
		return nil, err
	}
	return core.BreakdownInvestments(core.FilterInvestments(all, s.withToday(f)), dimension, measure)
}

// Snapshot is everything an export needs for one account.
type Snapshot struct {
	Account     core.AccountKey
	Expenses    []core.Expense
	Investments []core.TaggedInvestment
	Totals      core.Totals
}

// Snapshot loads the full ledger of account, tags investments and computes
// totals as of cutoff (zero means today).
func (s *LedgerService) Snapshot(ctx context.Context, account core.AccountKey, cutoff core.Date) (Snapshot, error) {
	if err := account.Validate(); err != nil {
		return Snapshot{}, err
	}
	if cutoff.IsZero() {
		cutoff = s.Today()
	}
	expenses, investments, err := s.loadBoth(ctx, account)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Account:     account,
		Expenses:    core.FilterExpenses(expenses, core.Filter{ShowAll: true}),
		Investments: core.TagInvestments(core.FilterInvestments(investments, core.Filter{ShowAll: true}), cutoff),
		Totals:      core.Aggregate(expenses, investments, cutoff),
	}, nil
}
