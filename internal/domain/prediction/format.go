package prediction

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol is the rupee sign the model's prices are quoted in.
const DefaultCurrencySymbol = "₹"

// Formatter renders display prices with digit grouping.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter returns a Formatter prefixing amounts with symbol.
func NewFormatter(symbol string) *Formatter {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(language.English)}
}

// Format renders 5001 as "₹ 5,001".
func (f *Formatter) Format(display int64) string {
	return f.symbol + " " + f.printer.Sprintf("%d", display)
}
