package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"myfinance/internal/core"
)

type ledger struct {
	expenses    []core.Expense
	investments []core.Investment
	lists       map[string][]string
}

// Store keeps every account's records in process memory. Records are kept
// in insertion order; IDs are unique across accounts.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	seeds    map[string][]string
	accounts map[core.AccountKey]*ledger
}

func New() *Store {
	return &Store{accounts: make(map[core.AccountKey]*ledger), seeds: make(map[string][]string)}
}

// NewFromFiles seeds the category lists from seed_<key>.txt files in base.
// Missing files leave that list unseeded so it reads as the built-in defaults.
func NewFromFiles(base string) *Store {
	s := New()
	for _, key := range core.VocabularyKeys() {
		if lines := readLines(filepath.Join(base, "seed_"+key+".txt")); len(lines) > 0 {
			s.seeds[key] = lines
		}
	}
	return s
}

func (s *Store) ledger(account core.AccountKey) *ledger {
	l, ok := s.accounts[account]
	if !ok {
		l = &ledger{lists: make(map[string][]string)}
		s.accounts[account] = l
	}
	return l
}

func (s *Store) ListExpenses(_ context.Context, account core.AccountKey) ([]core.Expense, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.ledger(account).expenses...), nil
}

func (s *Store) CreateExpense(_ context.Context, account core.AccountKey, e core.Expense) (int64, error) {
	if err := account.Validate(); err != nil {
		return 0, err
	}
	if err := e.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	l := s.ledger(account)
	l.expenses = append(l.expenses, e)
	return e.ID, nil
}

func (s *Store) UpdateExpense(_ context.Context, account core.AccountKey, id int64, e core.Expense) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledger(account)
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			e.ID = id
			l.expenses[i] = e
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteExpense(_ context.Context, account core.AccountKey, id int64) error {
	if err := account.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledger(account)
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			l.expenses = append(l.expenses[:i:i], l.expenses[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListInvestments(_ context.Context, account core.AccountKey) ([]core.Investment, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Investment(nil), s.ledger(account).investments...), nil
}

func (s *Store) CreateInvestment(_ context.Context, account core.AccountKey, i core.Investment) (int64, error) {
	if err := account.Validate(); err != nil {
		return 0, err
	}
	if err := i.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	i.ID = s.nextID
	l := s.ledger(account)
	l.investments = append(l.investments, i)
	return i.ID, nil
}

func (s *Store) UpdateInvestment(_ context.Context, account core.AccountKey, id int64, inv core.Investment) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := inv.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledger(account)
	for i := range l.investments {
		if l.investments[i].ID == id {
			inv.ID = id
			l.investments[i] = inv
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteInvestment(_ context.Context, account core.AccountKey, id int64) error {
	if err := account.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.ledger(account)
	for i := range l.investments {
		if l.investments[i].ID == id {
			l.investments = append(l.investments[:i:i], l.investments[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// GetCategoryList returns the stored list, falling back to the seed files.
func (s *Store) GetCategoryList(_ context.Context, account core.AccountKey, key string) ([]string, bool, error) {
	if err := account.Validate(); err != nil {
		return nil, false, err
	}
	if !core.ValidVocabularyKey(key) {
		return nil, false, core.ErrInvalidVocabularyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if items, ok := s.ledger(account).lists[key]; ok {
		return append([]string(nil), items...), true, nil
	}
	if seed, ok := s.seeds[key]; ok {
		return append([]string(nil), seed...), true, nil
	}
	return nil, false, nil
}

func (s *Store) PutCategoryList(_ context.Context, account core.AccountKey, key string, items []string) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if !core.ValidVocabularyKey(key) {
		return core.ErrInvalidVocabularyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger(account).lists[key] = core.DedupeLabels(items)
	return nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return core.DedupeLabels(out)
}
