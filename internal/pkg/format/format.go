package format

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbPrinter = message.NewPrinter(language.BritishEnglish)

// GBP renders an amount in pence as an en-GB currency string, e.g. 125050 -> "£1,250.50".
// Negative amounts carry a leading minus.
func GBP(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return gbPrinter.Sprintf("%s£%d.%02d", sign, pence/100, pence%100)
}

// Date renders a date the way invoices display it, e.g. "04 Sep 2026".
func Date(t time.Time) string {
	return t.Format("02 Jan 2006")
}
