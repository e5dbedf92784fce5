package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LedgerEntryKind tells whether a credit ledger entry adds to or pays down
// a customer's balance.
type LedgerEntryKind int

const (
	LedgerEntryCredit  LedgerEntryKind = 0
	LedgerEntryPayment LedgerEntryKind = 1
)

func (k LedgerEntryKind) String() string {
	switch k {
	case LedgerEntryCredit:
		return "credit"
	case LedgerEntryPayment:
		return "payment"
	}
	return fmt.Sprintf("LedgerEntryKind(%d)", int(k))
}

func (k LedgerEntryKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *LedgerEntryKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "credit":
		*k = LedgerEntryCredit
	case "payment":
		*k = LedgerEntryPayment
	default:
		return fmt.Errorf("unknown ledger entry kind %q", str)
	}
	return nil
}

func (k LedgerEntryKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *LedgerEntryKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*k = LedgerEntryKind(v)
	case int:
		*k = LedgerEntryKind(v)
	default:
		return fmt.Errorf("cannot scan %T into LedgerEntryKind", value)
	}
	return nil
}

// LedgerEntryStatus flags whether an entry still counts. Entries are never
// physically removed.
type LedgerEntryStatus int

const (
	LedgerEntryActive  LedgerEntryStatus = 0
	LedgerEntryDeleted LedgerEntryStatus = 1
)

func (s LedgerEntryStatus) String() string {
	if s == LedgerEntryDeleted {
		return "deleted"
	}
	return "active"
}

func (s LedgerEntryStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s LedgerEntryStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *LedgerEntryStatus) Scan(value interface{}) error {
	if value == nil {
		*s = LedgerEntryActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = LedgerEntryStatus(v)
	case int:
		*s = LedgerEntryStatus(v)
	}
	return nil
}
