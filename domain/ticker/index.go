// Package ticker maps ticker symbols onto the fixed book table.
//
// The mapping is lossy: distinct symbols can land in the same slot and
// then share one book. Nothing here detects or resolves that.
package ticker

// MaxTickers is the size of the book table.
const MaxTickers = 1024

// Slot sums the code points of symbol and reduces the sum modulo
// MaxTickers. The empty string maps to slot 0. Each byte of invalid
// UTF-8 counts as U+FFFD, so Slot("\xff") is 65533 % MaxTickers.
func Slot(symbol string) int {
	sum := 0
	for _, r := range symbol {
		sum += int(r)
	}
	return sum % MaxTickers
}

// Valid reports whether slot addresses a book in the table.
func Valid(slot int) bool {
	return slot >= 0 && slot < MaxTickers
}
