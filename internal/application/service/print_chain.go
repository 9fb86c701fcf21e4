package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/pkg/logger"
	"github.com/sangkips/kasir-api/pkg/metrics"
	"github.com/sangkips/kasir-api/pkg/printer"
)

// Print methods reported in PrintResult.Method.
const (
	PrintMethodThermal   = "thermal"
	PrintMethodReconnect = "thermal_reconnect"
	PrintMethodBrowser   = "browser"
)

// BrowserSurface produces a document the client prints through the
// operating system print dialog.
type BrowserSurface interface {
	Render(t *entity.Ticket) (string, error)
}

// PrintResult tells the caller how a receipt was printed.
type PrintResult struct {
	Method   string         `json:"method"`
	Notices  []string       `json:"notices,omitempty"`
	Document string         `json:"document,omitempty"`
	Ticket   *entity.Ticket `json:"ticket"`
}

// PrintChain prints receipts on the thermal printer and falls back to a
// browser document when the printer cannot be used.
type PrintChain struct {
	transport printer.Transport
	browser   BrowserSurface
	tickets   *TicketBuilder
	width     int
	metrics   *metrics.POSMetrics
	log       *logger.Logger
}

func NewPrintChain(transport printer.Transport, browser BrowserSurface, tickets *TicketBuilder, width int, m *metrics.POSMetrics, log *logger.Logger) *PrintChain {
	if width <= 0 {
		width = printer.Width58mm
	}
	return &PrintChain{
		transport: transport,
		browser:   browser,
		tickets:   tickets,
		width:     width,
		metrics:   m,
		log:       log,
	}
}

func (c *PrintChain) Print(ctx context.Context, receipt *pos.Receipt) *PrintResult {
	return c.PrintFor(ctx, receipt, "")
}

// PrintFor runs the fallback chain for receipt with cashier on the ticket.
// It never fails: when every thermal attempt fails the result carries the
// browser document, or only notices if that failed too.
func (c *PrintChain) PrintFor(ctx context.Context, receipt *pos.Receipt, cashier string) *PrintResult {
	ticket := c.tickets.Build(receipt, cashier)
	result := &PrintResult{Ticket: ticket}
	payload := FormatTicket(ticket, c.width)
	ctx = c.log.WithField(ctx, "receipt_number", receipt.Number)

	if c.connected(ctx) {
		ok, err := c.printOnce(ctx, payload)
		c.metrics.IncPrint(PrintMethodThermal, ok)
		if ok {
			result.Method = PrintMethodThermal
			return result
		}
		c.log.Warn(ctx, "thermal print failed", err)
		result.Notices = append(result.Notices, "Printer did not accept the receipt, reconnecting")
	}

	ok, err := c.reconnect(ctx)
	if ok {
		ok, err = c.printOnce(ctx, payload)
		c.metrics.IncPrint(PrintMethodReconnect, ok)
		if ok {
			result.Method = PrintMethodReconnect
			return result
		}
	}
	c.log.Warn(ctx, "printer unavailable, falling back to browser print", err)
	result.Notices = append(result.Notices, "Printer not available, use the browser print dialog")

	result.Method = PrintMethodBrowser
	doc, err := c.render(ticket)
	c.metrics.IncPrint(PrintMethodBrowser, err == nil)
	if err != nil {
		c.log.Error(ctx, "browser receipt rendering failed", err)
		result.Notices = append(result.Notices, "Receipt document could not be generated")
		return result
	}
	result.Document = doc
	return result
}

// PrintRaw sends bytes to the printer, connecting first when needed.
func (c *PrintChain) PrintRaw(ctx context.Context, payload []byte) error {
	if !c.connected(ctx) {
		ok, err := c.reconnect(ctx)
		if !ok {
			if err == nil {
				err = errors.New("printer declined the connection")
			}
			return err
		}
	}
	ok, err := c.printOnce(ctx, payload)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("printer did not accept the data")
	}
	return nil
}

func (c *PrintChain) connected(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error(ctx, "printer status check panicked", fmt.Errorf("%v", r))
			ok = false
		}
	}()
	return c.transport.IsConnected()
}

func (c *PrintChain) printOnce(ctx context.Context, payload []byte) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("printer panicked: %v", r)
		}
	}()
	return c.transport.Print(ctx, payload)
}

func (c *PrintChain) reconnect(ctx context.Context) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("printer connect panicked: %v", r)
		}
	}()
	return c.transport.Connect(ctx)
}

func (c *PrintChain) render(t *entity.Ticket) (doc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = "", fmt.Errorf("browser renderer panicked: %v", r)
		}
	}()
	return c.browser.Render(t)
}
