// Package money renders amounts as localized currency text.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Config selects locale, currency and precision.
type Config struct {
	Locale         string // BCP 47 tag, e.g. "id-ID"
	Currency       string // ISO 4217 code, e.g. "IDR"
	Symbol         string // defaults to the ISO code
	FractionDigits int
}

// DefaultConfig formats rupiah without fraction digits.
var DefaultConfig = Config{Locale: "id-ID", Currency: "IDR", Symbol: "Rp", FractionDigits: 0}

// Formatter is stateless after construction and safe for concurrent use.
type Formatter struct {
	printer  *message.Printer
	unit     currency.Unit
	symbol   string
	fraction int
}

func NewFormatter(cfg Config) (*Formatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("money: invalid locale %q: %w", cfg.Locale, err)
	}
	unit, err := currency.ParseISO(cfg.Currency)
	if err != nil {
		return nil, fmt.Errorf("money: invalid currency %q: %w", cfg.Currency, err)
	}
	if cfg.FractionDigits < 0 {
		cfg.FractionDigits = 0
	}
	symbol := cfg.Symbol
	if symbol == "" {
		symbol = unit.String()
	}
	return &Formatter{
		printer:  message.NewPrinter(tag),
		unit:     unit,
		symbol:   symbol,
		fraction: cfg.FractionDigits,
	}, nil
}

// Currency returns the ISO code the formatter renders.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format renders amount as e.g. "Rp 20.000" for id-ID. Negative amounts get a
// leading minus sign before the symbol.
func (f *Formatter) Format(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.fraction))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	var digits string
	if f.fraction == 0 {
		digits = f.printer.Sprint(number.Decimal(rounded.IntPart(), number.MaxFractionDigits(0)))
	} else {
		digits = f.printer.Sprint(number.Decimal(rounded.InexactFloat64(),
			number.MinFractionDigits(f.fraction),
			number.MaxFractionDigits(f.fraction)))
	}
	return sign + f.symbol + " " + strings.TrimSpace(digits)
}
