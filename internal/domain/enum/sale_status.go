package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SaleStatus represents the lifecycle state of a sale. It moves from
// active to voided exactly once.
type SaleStatus int

const (
	SaleStatusActive SaleStatus = 0
	SaleStatusVoided SaleStatus = 1
)

func (s SaleStatus) String() string {
	switch s {
	case SaleStatusActive:
		return "active"
	case SaleStatusVoided:
		return "voided"
	}
	return fmt.Sprintf("SaleStatus(%d)", int(s))
}

// ParseSaleStatus accepts the textual form used on the wire.
func ParseSaleStatus(str string) (SaleStatus, error) {
	switch str {
	case "active":
		return SaleStatusActive, nil
	case "voided":
		return SaleStatusVoided, nil
	}
	return 0, fmt.Errorf("unknown sale status %q", str)
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	parsed, err := ParseSaleStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusActive
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into SaleStatus", value)
	}
	return nil
}
