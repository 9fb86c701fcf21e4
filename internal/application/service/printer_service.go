package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// PrinterService exposes the shared printer connection and prints receipts
// through the fallback chain.
type PrinterService struct {
	transport   printer.Transport
	watcher     *printer.Watcher
	chain       *PrintChain
	printerType string
	log         *logger.Logger
}

func NewPrinterService(transport printer.Transport, watcher *printer.Watcher, chain *PrintChain, printerType string, log *logger.Logger) *PrinterService {
	return &PrinterService{
		transport:   transport,
		watcher:     watcher,
		chain:       chain,
		printerType: printerType,
		log:         log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Platform   string `json:"platform"`
}

// GetStatus reports the last state published by the watcher.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.watcher.Connected(),
		Type:       s.printerType,
		Platform:   s.transport.PlatformInfo(),
	}
}

// Connect opens the printer link and returns the resulting status.
func (s *PrinterService) Connect(ctx context.Context) (*PrinterStatus, error) {
	ok, err := s.transport.Connect(ctx)
	s.watcher.Refresh()
	if err != nil {
		s.log.Warn(ctx, "printer connect failed", err)
		return s.GetStatus(), fmt.Errorf("connect printer: %w", err)
	}
	if !ok {
		s.log.Info(ctx, "printer declined the connection")
	}
	return s.GetStatus(), nil
}

func (s *PrinterService) Disconnect(ctx context.Context) (*PrinterStatus, error) {
	err := s.transport.Disconnect(ctx)
	s.watcher.Refresh()
	if err != nil {
		return s.GetStatus(), fmt.Errorf("disconnect printer: %w", err)
	}
	return s.GetStatus(), nil
}

// TestPrint prints a sample receipt through the full fallback chain.
func (s *PrinterService) TestPrint(ctx context.Context) *PrintResult {
	method := "Test"
	sample := &pos.Receipt{
		Number:        "TEST-0001",
		CreatedAt:     time.Now(),
		PaymentMethod: &method,
		Items: []pos.CartItem{
			{Product: pos.Product{ID: "test-1", Name: "Test Item 1", SellPrice: decimal.NewFromInt(10000)}, Quantity: 1},
			{Product: pos.Product{ID: "test-2", Name: "Test Item 2", SellPrice: decimal.NewFromInt(5000)}, Quantity: 2},
		},
	}
	totals := pos.ComputeTotals(sample.Items, decimal.Zero)
	sample.Subtotal, sample.Total = totals.Subtotal, totals.Total
	return s.chain.PrintFor(ctx, sample, "System")
}

// PrintReceipt prints one of the session's receipts.
func (s *PrinterService) PrintReceipt(ctx context.Context, session *Session, receiptID, cashier string) (*PrintResult, error) {
	receipt, err := session.Receipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return s.chain.PrintFor(ctx, receipt, cashier), nil
}

// Print prints a receipt that is already at hand, e.g. straight after checkout.
func (s *PrinterService) Print(ctx context.Context, receipt *pos.Receipt, cashier string) *PrintResult {
	return s.chain.PrintFor(ctx, receipt, cashier)
}
