package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"myfinance/internal/core"
	"myfinance/internal/services"
)

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

// filterFlags are the list filters shared by expenses and investments.
type filterFlags struct {
	all      bool
	from, to string
}

func (ff *filterFlags) register(f *flag.FlagSet) {
	f.BoolVar(&ff.all, "all", false, "List every record instead of today's only.")
	f.StringVar(&ff.from, "from", "", "Earliest date (YYYY-MM-DD), implies -all.")
	f.StringVar(&ff.to, "to", "", "Latest date (YYYY-MM-DD), implies -all.")
}

// filter builds the core filter. Malformed bounds are reported and ignored.
func (ff *filterFlags) filter() core.Filter {
	f := core.Filter{ShowAll: ff.all}
	for _, b := range []struct {
		name, value string
		dst         *core.Date
	}{{"-from", ff.from, &f.From}, {"-to", ff.to, &f.To}} {
		if b.value == "" {
			continue
		}
		d, err := core.ParseDate(b.value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring %s %q: %v\n", b.name, b.value, err)
			continue
		}
		*b.dst = d
		f.ShowAll = true
	}
	return f
}

func optionalDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

type newAccountCmd struct{}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "print a fresh account key" }
func (*newAccountCmd) Usage() string {
	return `new-account

  Prints a new random account key. Accounts need no registration: the key
  starts owning records with its first write.
`
}
func (*newAccountCmd) SetFlags(*flag.FlagSet) {}

func (*newAccountCmd) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	fmt.Fprintln(stdout, core.NewAccountKey())
	return subcommands.ExitSuccess
}

type expensesCmd struct {
	filterFlags
	bank, card, kind string
}

func (*expensesCmd) Name() string     { return "expenses" }
func (*expensesCmd) Synopsis() string { return "list expenses" }
func (*expensesCmd) Usage() string {
	return `expenses [-all] [-from <date>] [-to <date>] [-bank <b>] [-card <c>] [-type <t>]

  Lists expenses, newest first. Without -all only today's are shown.
`
}

func (c *expensesCmd) SetFlags(f *flag.FlagSet) {
	c.filterFlags.register(f)
	f.StringVar(&c.bank, "bank", "", "Bank type filter.")
	f.StringVar(&c.card, "card", "", "Card type filter.")
	f.StringVar(&c.kind, "type", "", "Expense type filter.")
}

func (c *expensesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	flt := c.filter()
	flt.BankType, flt.CardType, flt.ExpenseType = c.bank, c.card, c.kind

	l, err := openLedger(true)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	list, err := l.svc.ListExpenses(ctx, l.account, flt)
	if err != nil {
		return fail("listing expenses: %v", err)
	}
	w := table()
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tBANK\tCARD\tTYPE\tREMARK")
	var total float64
	for _, e := range list {
		total += e.Amount
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, core.FormatAmount(e.Amount), e.BankType, e.CardType, e.ExpenseType, e.Remark)
	}
	fmt.Fprintf(w, "\t\t%s\t\t\t\t%d records\n", core.FormatAmount(total), len(list))
	w.Flush()
	return subcommands.ExitSuccess
}

type addExpenseCmd struct {
	date, amount, remark string
	bank, card, kind     string
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "record an expense, merging same-day duplicates" }
func (*addExpenseCmd) Usage() string {
	return `add-expense -amount <n> -bank <b> -card <c> -type <t> [-date <date>] [-remark <r>]

  Records an expense. An expense with the same date, bank, card and type is
  increased instead of duplicated.
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Expense date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.amount, "amount", "", "Amount, e.g. 12.50 or 12,50 (required).")
	f.StringVar(&c.remark, "remark", "", "Free text remark.")
	f.StringVar(&c.bank, "bank", "", "Bank type (required).")
	f.StringVar(&c.card, "card", "", "Card type (required).")
	f.StringVar(&c.kind, "type", "", "Expense type (required).")
}

func (c *addExpenseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	amount, err := core.ParseAmount(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}
	date, err := optionalDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -date %q: %v\n", c.date, err)
		return subcommands.ExitUsageError
	}

	l, err := openLedger(true)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	res, err := l.svc.AddExpense(ctx, l.account, core.Expense{
		Date: date, Amount: amount, Remark: c.remark,
		BankType: c.bank, CardType: c.card, ExpenseType: c.kind,
	})
	if err != nil {
		return fail("adding expense: %v", err)
	}
	verb := "created"
	if res.Merged {
		verb = "merged into"
	}
	fmt.Fprintf(stdout, "%s expense %d: %s %s\n", verb, res.Expense.ID, res.Expense.Date, core.FormatAmount(res.Expense.Amount))
	return subcommands.ExitSuccess
}

type investmentsCmd struct {
	filterFlags
	mode, kind, cutoff string
}

func (*investmentsCmd) Name() string     { return "investments" }
func (*investmentsCmd) Synopsis() string { return "list investment valuations" }
func (*investmentsCmd) Usage() string {
	return `investments [-all] [-from <date>] [-to <date>] [-mode <m>] [-type <t>] [-cutoff <date>]

  Lists investment records. The USED column marks the latest valuation of
  each holding as of -cutoff (default today).
`
}

func (c *investmentsCmd) SetFlags(f *flag.FlagSet) {
	c.filterFlags.register(f)
	f.StringVar(&c.mode, "mode", "", "Investment mode filter.")
	f.StringVar(&c.kind, "type", "", "Investment type filter.")
	f.StringVar(&c.cutoff, "cutoff", "", "Valuation cutoff (YYYY-MM-DD).")
}

func (c *investmentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	flt := c.filter()
	flt.InvestmentMode, flt.InvestmentType = c.mode, c.kind
	cutoff, err := optionalDate(c.cutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -cutoff %q: %v\n", c.cutoff, err)
		return subcommands.ExitUsageError
	}

	l, err := openLedger(true)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	list, err := l.svc.ListInvestments(ctx, l.account, flt, cutoff)
	if err != nil {
		return fail("listing investments: %v", err)
	}
	w := table()
	fmt.Fprintln(w, "ID\tDATE\tMODE\tTYPE\tCURRENT\tINVESTED\tRETURN\tUSED")
	for _, t := range list {
		used := ""
		if t.UsedForCalculation {
			used = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Mode, t.Type,
			core.FormatAmount(t.CurrentValue), core.FormatAmount(t.InvestmentAmount), core.FormatAmount(t.ReturnValue), used)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type addInvestmentCmd struct {
	date, mode, kind  string
	current, invested string
}

func (*addInvestmentCmd) Name() string     { return "add-investment" }
func (*addInvestmentCmd) Synopsis() string { return "record an investment valuation" }
func (*addInvestmentCmd) Usage() string {
	return `add-investment -mode <m> -type <t> -current <n> -invested <n> [-date <date>]

  Records a valuation snapshot. Older snapshots of the same mode and type
  stay as history.
`
}

func (c *addInvestmentCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Valuation date (YYYY-MM-DD). Defaults to today.")
	f.StringVar(&c.mode, "mode", "", "Investment mode (required).")
	f.StringVar(&c.kind, "type", "", "Investment type (required).")
	f.StringVar(&c.current, "current", "", "Current value (required).")
	f.StringVar(&c.invested, "invested", "", "Amount invested (required).")
}

func (c *addInvestmentCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	current, err := core.ParseAmount(c.current)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -current %q: %v\n", c.current, err)
		return subcommands.ExitUsageError
	}
	invested, err := core.ParseAmount(c.invested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -invested %q: %v\n", c.invested, err)
		return subcommands.ExitUsageError
	}
	date, err := optionalDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -date %q: %v\n", c.date, err)
		return subcommands.ExitUsageError
	}

	l, err := openLedger(true)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	inv, err := l.svc.AddInvestment(ctx, l.account, core.Investment{
		Date: date, Mode: c.mode, Type: c.kind, CurrentValue: current, InvestmentAmount: invested,
	})
	if err != nil {
		return fail("adding investment: %v", err)
	}
	fmt.Fprintf(stdout, "created investment %d: %s %s/%s return %s\n",
		inv.ID, inv.Date, inv.Mode, inv.Type, core.FormatAmount(inv.ReturnValue))
	return subcommands.ExitSuccess
}

type summaryCmd struct {
	cutoff string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show net worth and return on investment" }
func (*summaryCmd) Usage() string {
	return `summary [-cutoff <date>]

  Totals expenses and the latest valuation of each holding as of -cutoff
  (default today).
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cutoff, "cutoff", "", "Cutoff date (YYYY-MM-DD).")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cutoff, err := optionalDate(c.cutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -cutoff %q: %v\n", c.cutoff, err)
		return subcommands.ExitUsageError
	}

	l, err := openLedger(true)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	if cutoff.IsZero() {
		cutoff = l.svc.Today()
	}
	view := services.NewView(l.svc)
	if _, err := view.Load(ctx, view.Begin(), l.account, services.ModeTotalAssets); err != nil {
		return fail("loading ledger: %v", err)
	}
	st := view.State()
	t := core.Aggregate(st.Expenses, st.Investments, cutoff)

	w := table()
	fmt.Fprintf(w, "Cutoff\t%s\n", t.Cutoff)
	fmt.Fprintf(w, "Total expenses\t%s\n", core.FormatAmount(t.ExpenseTotal))
	fmt.Fprintf(w, "Total invested\t%s\n", core.FormatAmount(t.InvestmentTotal))
	fmt.Fprintf(w, "Current value\t%s\n", core.FormatAmount(t.CurrentValueTotal))
	fmt.Fprintf(w, "Total return\t%s\n", core.FormatAmount(t.ReturnTotal))
	fmt.Fprintf(w, "Net worth\t%s\n", core.FormatAmount(t.NetWorth))
	fmt.Fprintf(w, "ROI\t%.2f%%\n", t.ROIPercent)
	fmt.Fprintf(w, "Holdings\t%d\n", len(t.Selected))
	w.Flush()
	return subcommands.ExitSuccess
}

type categoriesCmd struct {
	add string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "show or extend a category list" }
func (*categoriesCmd) Usage() string {
	return `categories [-add <label>] [<key>]

  Without a key, prints every list. Keys: ` + strings.Join(core.VocabularyKeys(), ", ") + `.
  With -add, appends the label to the list named by key unless it is
  already present.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.add, "add", "", "Label to append to the list.")
}

func (c *categoriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	keys := f.Args()
	if c.add != "" && len(keys) != 1 {
		fmt.Fprintln(os.Stderr, "Error: -add needs exactly one list key.")
		return subcommands.ExitUsageError
	}
	if len(keys) == 0 {
		keys = core.VocabularyKeys()
	}

	l, err := openLedger(true)
	if err != nil {
		return fail("%v", err)
	}
	defer l.Close()

	if c.add != "" {
		items, added, err := l.svc.AddCategory(ctx, l.account, keys[0], c.add)
		if err != nil {
			return fail("adding %q to %s: %v", c.add, keys[0], err)
		}
		if !added {
			fmt.Fprintf(stdout, "%s already contains %q\n", keys[0], c.add)
		}
		fmt.Fprintf(stdout, "%s: %s\n", keys[0], strings.Join(items, ", "))
		return subcommands.ExitSuccess
	}

	for _, key := range keys {
		items, err := l.svc.CategoryList(ctx, l.account, key)
		if err != nil {
			return fail("reading %s: %v", key, err)
		}
		fmt.Fprintf(stdout, "%s: %s\n", key, strings.Join(items, ", "))
	}
	return subcommands.ExitSuccess
}
