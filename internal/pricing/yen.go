package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// jaPrinter groups digits the way the storefront does (3,180 not 3180).
var jaPrinter = message.NewPrinter(language.Japanese)

// FormatYen renders an integer yen amount with ja-JP digit grouping and
// no currency symbol; templates add their own prefix.
func FormatYen(n int) string {
	return jaPrinter.Sprintf("%d", n)
}

// Yen renders an amount with the currency mark, e.g. "¥3,180".
func Yen(n int) string {
	return "¥" + FormatYen(n)
}
