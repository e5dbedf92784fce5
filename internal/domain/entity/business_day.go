package entity

import "time"

// DateLayout is the key format of a trading day.
const DateLayout = "2006-01-02"

// BusinessDay records whether a trading day has been closed by an operator.
// A day with no row is open.
type BusinessDay struct {
	Date      string     `gorm:"size:10;primaryKey" json:"date"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	ClosedBy  *string    `gorm:"size:255" json:"closed_by,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName returns the table name for the BusinessDay model
func (BusinessDay) TableName() string {
	return "business_days"
}

// IsClosed reports whether the day is closed for new sales
func (d *BusinessDay) IsClosed() bool {
	return d != nil && d.ClosedAt != nil
}

// DayKey formats t as a trading-day key in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
