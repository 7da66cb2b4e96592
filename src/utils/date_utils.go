package utils

import "time"

// LedgerDateFormat is the day-precision format used across documents and in
// the ledger ("31.12.2025").
const LedgerDateFormat = "02.01.2006"

// ISODateFormat appears in transaction statements ("2025-12-31").
const ISODateFormat = "2006-01-02"

// ParseLedgerDate parses a dd.mm.yyyy date string.
func ParseLedgerDate(dateStr string) (time.Time, error) {
	return time.Parse(LedgerDateFormat, dateStr)
}

// ParseISODate parses a yyyy-mm-dd date string.
func ParseISODate(dateStr string) (time.Time, error) {
	return time.Parse(ISODateFormat, dateStr)
}
