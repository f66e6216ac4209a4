package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxLedgerEntries = 1000

type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindRestock  TransactionKind = "restock"
)

type Transaction struct {
	ID            string           `json:"id"`
	Kind          TransactionKind  `json:"kind"`
	SweetID       string           `json:"sweet_id"`
	SweetName     string           `json:"sweet_name"`
	Quantity      int              `json:"quantity"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	TotalCost     *decimal.Decimal `json:"total_cost,omitempty"`
	PreviousStock int              `json:"previous_stock"`
	NewStock      int              `json:"new_stock"`
	At            time.Time        `json:"at"`
}

// ledger is a bounded log; once full the oldest entries are dropped. It is
// guarded by the owning Store's lock.
type ledger struct {
	max     int
	entries []Transaction
	now     func() time.Time
}

func newLedger(max int) ledger {
	return ledger{
		max: max,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (l *ledger) record(t Transaction) {
	t.ID = "tx_" + uuid.NewString()
	t.At = l.now()

	l.entries = append(l.entries, t)
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append(l.entries[:0:0], l.entries[over:]...)
	}
}

func (l *ledger) snapshot() []Transaction {
	out := make([]Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}
