package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"myfinance/internal/core"
)

// Mode selects which collections a view shows.
type Mode int

const (
	ModeExpenses Mode = iota
	ModeInvestments
	// ModeTotalAssets shows both collections side by side.
	ModeTotalAssets
)

func (m Mode) String() string {
	switch m {
	case ModeExpenses:
		return "expenses"
	case ModeInvestments:
		return "investments"
	case ModeTotalAssets:
		return "total_assets"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the names produced by Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeExpenses, ModeInvestments, ModeTotalAssets} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown view mode %q", s)
}

// ViewState is the data most recently committed to a View.
type ViewState struct {
	Account     core.AccountKey
	Mode        Mode
	Expenses    []core.Expense
	Investments []core.Investment
	LoadedAt    time.Time
}

// View holds in-memory ledger state fed by loads that may overlap. Only the
// load started by the latest Begin may commit; older loads still finish
// their reads but their results are dropped.
type View struct {
	svc *LedgerService

	mu    sync.Mutex
	gen   uint64
	state ViewState
}

func NewView(svc *LedgerService) *View {
	return &View{svc: svc}
}

// LoadToken identifies one load. It is active until Cancel is called or a
// newer Begin supersedes it.
type LoadToken struct {
	view *View
	gen  uint64
}

// Begin starts a new load generation and deactivates every earlier token.
func (v *View) Begin() *LoadToken {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	return &LoadToken{view: v, gen: v.gen}
}

func (t *LoadToken) Active() bool {
	t.view.mu.Lock()
	defer t.view.mu.Unlock()
	return t.view.gen == t.gen
}

// Cancel deactivates the token; the next Begin is unaffected.
func (t *LoadToken) Cancel() {
	t.view.mu.Lock()
	defer t.view.mu.Unlock()
	if t.view.gen == t.gen {
		t.view.gen++
	}
}

// Load fetches the collections for mode and commits them if token is still
// active when the reads complete. It reports whether the result was
// committed. Failed loads leave the view untouched.
func (v *View) Load(ctx context.Context, token *LoadToken, account core.AccountKey, mode Mode) (bool, error) {
	if err := account.Validate(); err != nil {
		return false, err
	}

	next := ViewState{Account: account, Mode: mode}
	var err error
	switch mode {
	case ModeExpenses:
		next.Expenses, err = v.svc.loadExpenses(ctx, account)
	case ModeInvestments:
		next.Investments, err = v.svc.loadInvestments(ctx, account)
	case ModeTotalAssets:
		next.Expenses, next.Investments, err = v.svc.loadBoth(ctx, account)
	default:
		return false, fmt.Errorf("load view: unknown mode %v", mode)
	}
	if err != nil {
		return false, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if token.view != v || token.gen != v.gen {
		return false, nil
	}
	next.LoadedAt = v.svc.now()
	v.state = next
	return true, nil
}

// State returns the last committed state.
func (v *View) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
