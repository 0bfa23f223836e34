// pkg/format/format.go
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is the placeholder every view model uses for missing text.
const NotAvailable = "N/A"

// Vietnam is ICT (UTC+7, no DST). A fixed zone keeps output identical on
// hosts without tzdata.
var Vietnam = time.FixedZone("ICT", 7*60*60)

var printer = message.NewPrinter(language.Vietnamese)

// Date renders dd/MM/yyyy in ICT, or N/A.
func Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.In(Vietnam).Format("02/01/2006")
}

// DateTime renders HH:mm dd/MM/yyyy in ICT, or N/A.
func DateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.In(Vietnam).Format("15:04 02/01/2006")
}

// ISO is the machine form stored next to every display date, or N/A.
func ISO(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.UTC().Format(time.RFC3339)
}

// Number groups thousands with "." as vi-VN does.
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Currency renders a VND amount: no minor unit, grouped, "₫" suffix.
func Currency(amount decimal.Decimal) string {
	return Number(amount.Round(0).IntPart()) + " ₫"
}
