package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Entities and operations carried by ledger events.
const (
	EntityExpense    = "expense"
	EntityInvestment = "investment"
	EntityCategory   = "category"

	OpCreate = "create"
	OpMerge  = "merge"
	OpUpdate = "update"
	OpDelete = "delete"
)

// LedgerEvent announces a committed change to one account's ledger. It
// carries only identifiers; consumers reload the records they need.
type LedgerEvent struct {
	AccountKey string    `json:"account_key"`
	Entity     string    `json:"entity"`
	Op         string    `json:"op"`
	ID         int64     `json:"id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewLedgerEvent(accountKey, entity, op string, id int64) *LedgerEvent {
	return &LedgerEvent{
		AccountKey: accountKey,
		Entity:     entity,
		Op:         op,
		ID:         id,
		Timestamp:  time.Now().UTC(),
	}
}

func (e *LedgerEvent) Validate() error {
	if e.AccountKey == "" {
		return errors.New("ledger event without account key")
	}
	switch e.Entity {
	case EntityExpense, EntityInvestment, EntityCategory:
	default:
		return errors.New("ledger event with unknown entity " + e.Entity)
	}
	return nil
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
