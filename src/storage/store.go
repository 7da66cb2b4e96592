// Package storage persists the position ledger. Rows are keyed only by
// position; optional columns (fee, taxes) are resolved by name so older
// ledgers keep working when columns are added.
package storage

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrLedgerLocked means the store is held by another process (an open
// workbook, a locked database). Fatal for the run: the batch aborts without
// consuming documents so a retry reprocesses them.
var ErrLedgerLocked = errors.New("ledger store unavailable")

// Position is one ledger row. A position is created by a buy, closed in
// place by the matching sell, and never deleted; closed rows remain for
// historical record.
type Position struct {
	// Index is the backend-specific row key (sheet row, database id).
	// Assigned by the store on Append; opaque to the engine.
	Index int

	AssetName string
	BuyDate   time.Time
	Quantity  decimal.Decimal
	BuyPrice  decimal.Decimal

	SellDate     *time.Time
	SellQuantity decimal.Decimal
	SellPrice    decimal.Decimal
	Fee          decimal.Decimal
	Taxes        decimal.Decimal
}

// Open reports whether the row has no sell date yet. Closed is terminal.
func (p Position) Open() bool { return p.SellDate == nil }

// Sale carries the fields written into a position when it closes.
type Sale struct {
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Fee      decimal.Decimal
	Taxes    decimal.Decimal
}

// Store is the row-oriented ledger collaborator. Append and WriteSale
// persist immediately: each row update is atomic from the engine's view,
// but there is no rollback across multiple trades in one run.
type Store interface {
	// Positions returns all rows in ledger order (earliest-created first).
	Positions() ([]Position, error)
	// Append adds a new row and returns its assigned Index.
	Append(p Position) (int, error)
	// WriteSale closes the row with the given Index in place.
	WriteSale(index int, sale Sale) error
	Close() error
}
