package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-ledger/internal/domain/entity"
	"github.com/sangkips/pos-ledger/internal/domain/ledger"
	"github.com/sangkips/pos-ledger/internal/domain/repository"
	"github.com/sangkips/pos-ledger/pkg/logger"
	"github.com/sangkips/pos-ledger/pkg/money"
	"github.com/sangkips/pos-ledger/pkg/printer"
	"go.uber.org/zap"
)

// ReceiptOptions controls receipt layout
type ReceiptOptions struct {
	StoreName   string
	Footer      string
	Width       int
	Location    *time.Location
	ReceiptTag  string
	PrinterType string
}

// ReceiptService renders committed sales as ESC/POS receipts and sends them
// to the till printer. Printing never changes ledger state.
type ReceiptService struct {
	printer  printer.Printer
	saleRepo repository.SaleRepository
	opts     ReceiptOptions
}

// NewReceiptService creates a new receipt service
func NewReceiptService(p printer.Printer, saleRepo repository.SaleRepository, opts ReceiptOptions) *ReceiptService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ReceiptTag == "" {
		opts.ReceiptTag = "S"
	}
	if opts.Width <= 0 {
		opts.Width = printer.Width58mm
	}
	if opts.StoreName == "" {
		opts.StoreName = "POS"
	}
	return &ReceiptService{printer: p, saleRepo: saleRepo, opts: opts}
}

// PrinterUnavailableError means the job could not reach the printer
type PrinterUnavailableError struct {
	Err error
}

func (e *PrinterUnavailableError) Error() string {
	return "receipt printer unavailable"
}

func (e *PrinterUnavailableError) Unwrap() error { return e.Err }

func (e *PrinterUnavailableError) HTTPStatus() int { return http.StatusBadGateway }

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// Status reports whether a printer is configured and reachable
func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.opts.PrinterType != "" && s.opts.PrinterType != printer.TypeNone,
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.opts.PrinterType,
	}
}

// PrintedReceipt identifies a printed sale
type PrintedReceipt struct {
	SaleID    uuid.UUID `json:"sale_id"`
	DisplayID string    `json:"display_id"`
	Voided    bool      `json:"voided"`
}

// PrintSale prints the receipt of a committed sale. Voided sales print with
// a VOID banner so a reprint cannot pass as a live receipt.
func (s *ReceiptService) PrintSale(ctx context.Context, saleID uuid.UUID) (*PrintedReceipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, &ledger.NotFoundError{Resource: "sale", ID: saleID}
	}

	displayID := s.displayID(sale)
	if err := s.printer.Print(ctx, s.Render(sale)); err != nil {
		logger.L().Warn("receipt print failed", zap.String("receipt", displayID), zap.Error(err))
		return nil, &PrinterUnavailableError{Err: err}
	}

	logger.L().Info("receipt printed", zap.String("receipt", displayID))
	return &PrintedReceipt{SaleID: sale.ID, DisplayID: displayID, Voided: sale.IsVoided()}, nil
}

func (s *ReceiptService) displayID(sale *entity.Sale) string {
	return ledger.ReceiptDisplayID(sale.CreatedAt.In(s.opts.Location), s.opts.ReceiptTag, sale.ReceiptSeq)
}

func amount(cents int64) string {
	return money.ToDecimal(cents).StringFixed(2)
}

// Render lays out a sale as ESC/POS bytes.
func (s *ReceiptService) Render(sale *entity.Sale) []byte {
	doc := printer.NewDocument(s.opts.Width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.FontDouble).
		Text(s.opts.StoreName).
		Size(printer.FontNormal).
		Bold(false)

	if sale.IsVoided() {
		doc.Bold(true).Text("*** VOID ***").Bold(false)
	}

	doc.Align(printer.AlignLeft).
		Separator('-').
		Columns("Receipt:", sale.ReceiptNumber).
		Columns("Date:", sale.CreatedAt.In(s.opts.Location).Format("2006-01-02 15:04")).
		Text(s.displayID(sale))

	if sale.CustomerLabel != nil && *sale.CustomerLabel != "" {
		doc.Columns("Customer:", *sale.CustomerLabel)
	}
	if sale.ServiceType != nil && *sale.ServiceType != "" {
		doc.Columns("Service:", *sale.ServiceType)
	}

	doc.Separator('-')
	for _, item := range sale.Items {
		doc.ItemLine(item.Quantity, item.ItemName, amount(item.LineTotal))
		if item.Quantity > 1 {
			doc.Textf("  @ %s each", amount(item.UnitPrice))
		}
	}
	doc.Separator('-')

	doc.Bold(true).
		Columns("TOTAL:", amount(sale.Total)).
		Bold(false)

	if s.opts.Footer != "" {
		doc.Separator('-').
			Align(printer.AlignCenter).
			Feed(1).
			Text(s.opts.Footer).
			Align(printer.AlignLeft)
	}

	return doc.Feed(3).Cut(true).Bytes()
}

