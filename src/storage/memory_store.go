package storage

import "fmt"

// MemoryStore keeps the ledger in process memory. Used by tests and as a
// dry-run backend; it implements the same contract as the persistent
// stores.
type MemoryStore struct {
	rows []Position
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Positions() ([]Position, error) {
	out := make([]Position, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *MemoryStore) Append(p Position) (int, error) {
	p.Index = len(s.rows)
	s.rows = append(s.rows, p)
	return p.Index, nil
}

func (s *MemoryStore) WriteSale(index int, sale Sale) error {
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("no ledger row with index %d", index)
	}
	row := &s.rows[index]
	d := sale.Date
	row.SellDate = &d
	row.SellQuantity = sale.Quantity
	row.SellPrice = sale.Price
	row.Fee = sale.Fee
	row.Taxes = sale.Taxes
	return nil
}

func (s *MemoryStore) Close() error { return nil }
