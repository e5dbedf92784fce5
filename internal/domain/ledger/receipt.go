package ledger

import (
	"fmt"
	"time"
)

const (
	// SaleReceiptCounter names the sequence that numbers sales.
	SaleReceiptCounter = "saleReceipt"

	// ReceiptWidth is the zero-padded width of a receipt number.
	ReceiptWidth = 6

	displayStampLayout = "20060102_150405"
)

// FormatReceiptNumber zero-pads n to ReceiptWidth digits. Larger values are
// printed in full.
func FormatReceiptNumber(n int64) string {
	return fmt.Sprintf("%0*d", ReceiptWidth, n)
}

// ReceiptDisplayID renders the operator-facing ID, e.g.
// 20240310_143005-S-000001. Ordering must use the raw sequence, not this.
func ReceiptDisplayID(at time.Time, tag string, n int64) string {
	return at.Format(displayStampLayout) + "-" + tag + "-" + FormatReceiptNumber(n)
}
