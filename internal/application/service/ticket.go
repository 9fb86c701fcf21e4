package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/sangkips/kasir-api/internal/domain/entity"
	"github.com/sangkips/kasir-api/internal/domain/pos"
	"github.com/sangkips/kasir-api/pkg/money"
	"github.com/sangkips/kasir-api/pkg/printer"
)

const ticketDateLayout = "02/01/2006 15:04"

// TicketBuilder turns stored receipts into printable tickets.
type TicketBuilder struct {
	header    entity.TicketHeader
	formatter *money.Formatter
	location  *time.Location
}

func NewTicketBuilder(header entity.TicketHeader, formatter *money.Formatter) *TicketBuilder {
	return &TicketBuilder{header: header, formatter: formatter, location: time.Local}
}

func (b *TicketBuilder) Build(r *pos.Receipt, cashier string) *entity.Ticket {
	t := &entity.Ticket{
		Header:   b.header,
		Number:   r.Number,
		Date:     r.CreatedAt.In(b.location).Format(ticketDateLayout),
		Cashier:  cashier,
		Manual:   r.Manual,
		Subtotal: b.formatter.Format(r.Subtotal),
		Total:    b.formatter.Format(r.Total),
		Lines:    make([]entity.TicketLine, 0, len(r.Items)),
	}
	if r.PaymentMethod != nil {
		t.PaymentType = *r.PaymentMethod
	}
	if !r.Discount.IsZero() {
		t.Discount = b.formatter.Format(r.Discount)
	}
	for _, item := range r.Items {
		t.Lines = append(t.Lines, entity.TicketLine{
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: b.formatter.Format(item.EffectivePrice()),
			Total:     b.formatter.Format(item.LineTotal()),
		})
	}
	return t
}

// FormatTicket converts a ticket into ESC/POS bytes for a paper width of
// width characters.
func FormatTicket(t *entity.Ticket, width int) []byte {
	doc := printer.NewDocument(width).Init()

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(t.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if t.Header.Address != "" {
		doc.Text(t.Header.Address)
	}
	if t.Header.Phone != "" {
		doc.Text(t.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		Columns("No:", t.Number).
		Columns("Tanggal:", t.Date)
	if t.Cashier != "" {
		doc.Columns("Kasir:", t.Cashier)
	}
	if t.PaymentType != "" {
		doc.Columns("Bayar:", t.PaymentType)
	}
	doc.Separator('-')

	for _, line := range t.Lines {
		doc.Text(line.Name).
			Columns(fmt.Sprintf("  %d x %s", line.Quantity, line.UnitPrice), line.Total)
	}

	doc.Separator('-').
		Columns("Subtotal", t.Subtotal)
	if t.Discount != "" {
		doc.Columns("Diskon", "-"+t.Discount)
	}
	doc.SetBold(true).
		Columns("TOTAL", t.Total).
		SetBold(false).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		Text("Terima kasih").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

var ticketTemplate = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>{{.Number}}</title>
<style>
body { font-family: monospace; width: 58mm; margin: 0 auto; font-size: 12px; }
.center { text-align: center; }
.row { display: flex; justify-content: space-between; }
hr { border: 0; border-top: 1px dashed #000; }
@media print { @page { margin: 0; } }
</style>
</head>
<body onload="window.print()">
<div class="center"><strong>{{.Header.StoreName}}</strong>{{with .Header.Address}}<br>{{.}}{{end}}{{with .Header.Phone}}<br>{{.}}{{end}}</div>
<hr>
<div class="row"><span>No</span><span>{{.Number}}</span></div>
<div class="row"><span>Tanggal</span><span>{{.Date}}</span></div>
{{with .Cashier}}<div class="row"><span>Kasir</span><span>{{.}}</span></div>{{end}}
{{with .PaymentType}}<div class="row"><span>Bayar</span><span>{{.}}</span></div>{{end}}
<hr>
{{range .Lines}}<div>{{.Name}}</div>
<div class="row"><span>{{.Quantity}} x {{.UnitPrice}}</span><span>{{.Total}}</span></div>
{{end}}<hr>
<div class="row"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
{{with .Discount}}<div class="row"><span>Diskon</span><span>-{{.}}</span></div>{{end}}
<div class="row"><strong>TOTAL</strong><strong>{{.Total}}</strong></div>
<hr>
<div class="center">Terima kasih</div>
</body>
</html>
`))

// HTMLTicketRenderer renders a ticket as a self-printing HTML page.
type HTMLTicketRenderer struct{}

func (HTMLTicketRenderer) Render(t *entity.Ticket) (string, error) {
	var buf bytes.Buffer
	if err := ticketTemplate.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render ticket %s: %w", t.Number, err)
	}
	return buf.String(), nil
}
