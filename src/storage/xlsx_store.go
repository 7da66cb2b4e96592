package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/username/tradeledger/src/utils"
)

// Fixed column layout of the trading workbook. Column E is reserved in the
// historical ledgers and left untouched. Fee and tax columns are optional
// and resolved from the header row by name.
const (
	colAssetName = 1 // A
	colBuyDate   = 2 // B
	colQuantity  = 3 // C
	colBuyPrice  = 4 // D
	colSellDate  = 6 // F
	colSellQty   = 7 // G
	colSellPrice = 8 // H
)

const (
	headerFee   = "Trading Fee"
	headerTaxes = "Taxes"
)

const dateNumFmt = "DD.MM.YYYY"

// XLSXStore persists the ledger as a spreadsheet workbook, the format the
// ledger has always lived in. Every mutation saves the file immediately; a
// workbook held open by a spreadsheet application surfaces as
// ErrLedgerLocked.
type XLSXStore struct {
	path      string
	f         *excelize.File
	sheet     string
	dateStyle int
	feeCol    int // 0 when the ledger has no such column
	taxCol    int
}

func OpenXLSX(path string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, lockErr(err)
		}
		f = excelize.NewFile()
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	s := &XLSXStore{path: path, f: f, sheet: sheet}

	numFmt := dateNumFmt
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("creating date style: %w", err)
	}
	s.dateStyle = styleID

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading ledger sheet: %w", err)
	}
	if len(rows) == 0 {
		if err := s.writeHeader(); err != nil {
			return nil, err
		}
	} else {
		s.resolveHeader(rows[0])
	}
	return s, nil
}

func (s *XLSXStore) writeHeader() error {
	headers := map[int]string{
		colAssetName: "Asset Name",
		colBuyDate:   "Buy Date",
		colQuantity:  "Quantity",
		colBuyPrice:  "Buy Price",
		colSellDate:  "Sell Date",
		colSellQty:   "Sell Quantity",
		colSellPrice: "Sell Price",
		9:            headerFee,
		10:           headerTaxes,
	}
	for col, name := range headers {
		if err := s.f.SetCellValue(s.sheet, cell(col, 1), name); err != nil {
			return fmt.Errorf("writing ledger header: %w", err)
		}
	}
	s.feeCol, s.taxCol = 9, 10
	return s.save()
}

// resolveHeader locates optional columns by name so ledgers predating the
// fee/tax columns keep working.
func (s *XLSXStore) resolveHeader(header []string) {
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case headerFee:
			s.feeCol = i + 1
		case headerTaxes:
			s.taxCol = i + 1
		}
	}
}

func (s *XLSXStore) Positions() ([]Position, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("reading ledger rows: %w", err)
	}
	var positions []Position
	for i, row := range rows {
		if i == 0 || rowEmpty(row) {
			continue
		}
		p := Position{
			Index:     i + 1, // sheet rows are 1-based, data starts at 2
			AssetName: strings.TrimSpace(cellAt(row, colAssetName)),
			BuyDate:   parseCellDate(cellAt(row, colBuyDate)),
			Quantity:  utils.ParseAmount(cellAt(row, colQuantity)),
			BuyPrice:  utils.ParseAmount(cellAt(row, colBuyPrice)),
		}
		// a non-empty sell date cell closes the row, parseable or not
		if sd := strings.TrimSpace(cellAt(row, colSellDate)); sd != "" {
			d := parseCellDate(sd)
			p.SellDate = &d
			p.SellQuantity = utils.ParseAmount(cellAt(row, colSellQty))
			p.SellPrice = utils.ParseAmount(cellAt(row, colSellPrice))
			if s.feeCol > 0 {
				p.Fee = utils.ParseAmount(cellAt(row, s.feeCol))
			}
			if s.taxCol > 0 {
				p.Taxes = utils.ParseAmount(cellAt(row, s.taxCol))
			}
		}
		positions = append(positions, p)
	}
	return positions, nil
}

func (s *XLSXStore) Append(p Position) (int, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return 0, fmt.Errorf("reading ledger rows: %w", err)
	}
	// next row after the last non-empty one; trailing ghost rows are reused
	row := 2
	for i := len(rows); i >= 1; i-- {
		if i == 1 || !rowEmpty(rows[i-1]) {
			row = i + 1
			break
		}
	}

	if err := s.f.SetCellValue(s.sheet, cell(colAssetName, row), p.AssetName); err != nil {
		return 0, err
	}
	if err := s.setDateCell(colBuyDate, row, p.BuyDate); err != nil {
		return 0, err
	}
	if err := s.f.SetCellValue(s.sheet, cell(colQuantity, row), p.Quantity.InexactFloat64()); err != nil {
		return 0, err
	}
	if err := s.f.SetCellValue(s.sheet, cell(colBuyPrice, row), p.BuyPrice.InexactFloat64()); err != nil {
		return 0, err
	}
	if err := s.save(); err != nil {
		return 0, err
	}
	return row, nil
}

func (s *XLSXStore) WriteSale(index int, sale Sale) error {
	if err := s.setDateCell(colSellDate, index, sale.Date); err != nil {
		return err
	}
	if err := s.f.SetCellValue(s.sheet, cell(colSellQty, index), sale.Quantity.InexactFloat64()); err != nil {
		return err
	}
	if err := s.f.SetCellValue(s.sheet, cell(colSellPrice, index), sale.Price.InexactFloat64()); err != nil {
		return err
	}
	if s.feeCol > 0 {
		if err := s.f.SetCellValue(s.sheet, cell(s.feeCol, index), sale.Fee.InexactFloat64()); err != nil {
			return err
		}
	}
	if s.taxCol > 0 {
		if err := s.f.SetCellValue(s.sheet, cell(s.taxCol, index), sale.Taxes.InexactFloat64()); err != nil {
			return err
		}
	}
	return s.save()
}

func (s *XLSXStore) Close() error { return s.f.Close() }

func (s *XLSXStore) setDateCell(col, row int, date time.Time) error {
	ref := cell(col, row)
	if err := s.f.SetCellValue(s.sheet, ref, date); err != nil {
		return err
	}
	return s.f.SetCellStyle(s.sheet, ref, ref, s.dateStyle)
}

func (s *XLSXStore) save() error {
	if err := s.f.SaveAs(s.path); err != nil {
		return lockErr(err)
	}
	return nil
}

// lockErr classifies write failures caused by another process holding the
// workbook (the classic "Excel is still open" case) as ErrLedgerLocked.
func lockErr(err error) error {
	if os.IsPermission(err) || strings.Contains(err.Error(), "being used by another process") {
		return fmt.Errorf("%w: %v", ErrLedgerLocked, err)
	}
	return err
}

func cell(col, row int) string {
	ref, _ := excelize.CoordinatesToCellName(col, row)
	return ref
}

func cellAt(row []string, col int) string {
	if col-1 < len(row) {
		return row[col-1]
	}
	return ""
}

func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseCellDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if t, err := utils.ParseLedgerDate(s); err == nil {
		return t
	}
	if t, err := utils.ParseISODate(s); err == nil {
		return t
	}
	// excelize falls back to its default date rendering for unstyled cells
	if t, err := time.Parse("01-02-06", s); err == nil {
		return t
	}
	return time.Time{}
}
