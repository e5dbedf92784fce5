package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptService_PrintSale(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t, 3)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 10, 14, 30, 5, 0, time.UTC) }
	rice := f.item(t, "Rice", 10)

	label := "Table 4"
	result, err := f.svc.RecordSale(ctx, &RecordSaleInput{
		Items:         []SaleLineInput{line(rice, 2, 5500), {Name: "Bag", Quantity: 1, UnitPrice: 500}},
		CustomerLabel: &label,
	})
	require.NoError(t, err)

	rec := &printer.Recorder{}
	receipts := NewReceiptService(rec, f.store.Sales(), ReceiptOptions{StoreName: "Corner Store", Footer: "Salamat!", Width: 32})

	printed, err := receipts.PrintSale(ctx, result.ID)
	require.NoError(t, err)
	assert.Equal(t, "20240310_143005-S-000001", printed.DisplayID)
	assert.False(t, printed.Voided)

	jobs := rec.Jobs()
	require.Len(t, jobs, 1)
	text := string(jobs[0])
	assert.Contains(t, text, "Corner Store")
	assert.Contains(t, text, "Receipt:                  000001")
	assert.Contains(t, text, "2x Rice                   110.00")
	assert.Contains(t, text, "  @ 55.00 each")
	assert.Contains(t, text, "1x Bag                      5.00")
	assert.Contains(t, text, "TOTAL:                    115.00")
	assert.Contains(t, text, "Customer:                Table 4")
	assert.Contains(t, text, "Salamat!")
	assert.NotContains(t, text, "VOID")
	assert.True(t, bytes.HasSuffix(jobs[0], []byte{printer.GS, 'V', 1}))

	_, err = f.svc.VoidSale(ctx, result.ID)
	require.NoError(t, err)
	printed, err = receipts.PrintSale(ctx, result.ID)
	require.NoError(t, err)
	assert.True(t, printed.Voided)
	assert.Contains(t, string(rec.Jobs()[1]), "*** VOID ***")
}

func TestReceiptService_Errors(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t, 3)
	rec := &printer.Recorder{}
	receipts := NewReceiptService(rec, f.store.Sales(), ReceiptOptions{PrinterType: printer.TypeNetwork})

	_, err := receipts.PrintSale(ctx, uuid.New())
	var nf *ledger.NotFoundError
	require.ErrorAs(t, err, &nf)

	result, err := f.svc.RecordSale(ctx, &RecordSaleInput{Items: []SaleLineInput{{Name: "Wash", Quantity: 1, UnitPrice: 100}}})
	require.NoError(t, err)

	rec.Err = errors.New("paper out")
	_, err = receipts.PrintSale(ctx, result.ID)
	var unavailable *PrinterUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, 502, unavailable.HTTPStatus())

	status := receipts.Status(ctx)
	assert.True(t, status.Configured)
	assert.False(t, status.Connected)
}
