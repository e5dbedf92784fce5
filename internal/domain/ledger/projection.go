package ledger

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/enum"
	"github.com/sangkips/pos-ledger/pkg/money"
)

// CustomerBalance is derived from the entry log and never stored.
// Balance is credits minus payments; Paid is payments to date.
type CustomerBalance struct {
	Balance int64
	Paid    int64
}

func (b CustomerBalance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Balance json.Number `json:"balance"`
		Paid    json.Number `json:"paid"`
	}{
		Balance: money.JSON(b.Balance),
		Paid:    money.JSON(b.Paid),
	})
}

// Project folds active entries into per-customer balances. Deleted entries
// are skipped. The fold only adds, so any ordering of entries gives the same
// result.
func Project(entries []entity.CreditLedgerEntry) map[uuid.UUID]CustomerBalance {
	out := make(map[uuid.UUID]CustomerBalance)
	for i := range entries {
		e := &entries[i]
		if !e.IsActive() {
			continue
		}
		b := out[e.CustomerID]
		switch e.Kind {
		case enum.LedgerEntryCredit:
			b.Balance += e.Amount
		case enum.LedgerEntryPayment:
			b.Balance -= e.Amount
			b.Paid += e.Amount
		}
		out[e.CustomerID] = b
	}
	return out
}
