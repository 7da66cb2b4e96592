package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/username/tradeledger/src/logger"
	"github.com/username/tradeledger/src/utils"
)

// SQLiteStore persists the ledger in a single-table sqlite database. Row
// order follows the autoincrement id, so scan order equals creation order.
// Amounts are stored as canonical decimal text to avoid float drift.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(databasePath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("opening ledger database at %s: %w", databasePath, err)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS positions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset_name TEXT NOT NULL,
		buy_date TEXT NOT NULL,
		quantity TEXT NOT NULL,
		buy_price TEXT NOT NULL,
		sell_date TEXT,
		sell_quantity TEXT,
		sell_price TEXT
	);
	`
	if _, err := db.Exec(createTableStatement); err != nil {
		db.Close()
		return nil, lockErrSQLite(fmt.Errorf("creating positions table: %w", err))
	}

	s := &SQLiteStore{db: db}
	s.migratePositionsTable()
	return s, nil
}

// migratePositionsTable adds the optional fee/taxes columns to ledgers
// created before they existed. This is the database counterpart of the
// workbook's header-by-name column lookup.
func (s *SQLiteStore) migratePositionsTable() {
	rows, err := s.db.Query("PRAGMA table_info(positions)")
	if err != nil {
		logger.L.Error("Error querying table schema for 'positions'", "error", err)
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			logger.L.Error("Error scanning column info for 'positions'", "error", err)
			return
		}
		columnExists[name] = true
	}
	if err := rows.Err(); err != nil {
		logger.L.Error("Error iterating over column info for 'positions'", "error", err)
		return
	}

	for _, col := range []string{"fee", "taxes"} {
		if columnExists[col] {
			continue
		}
		if _, err := s.db.Exec("ALTER TABLE positions ADD COLUMN " + col + " TEXT"); err != nil {
			logger.L.Error("Error adding column to 'positions' table", "column", col, "error", err)
		} else {
			logger.L.Info("Added column to 'positions' table", "column", col)
		}
	}
}

func (s *SQLiteStore) Positions() ([]Position, error) {
	rows, err := s.db.Query(`SELECT id, asset_name, buy_date, quantity, buy_price,
		sell_date, sell_quantity, sell_price, fee, taxes
		FROM positions ORDER BY id`)
	if err != nil {
		return nil, lockErrSQLite(err)
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var (
			p                            Position
			buyDate, quantity, buyPrice  string
			sellDate, sellQty, sellPrice sql.NullString
			fee, taxes                   sql.NullString
		)
		if err := rows.Scan(&p.Index, &p.AssetName, &buyDate, &quantity, &buyPrice,
			&sellDate, &sellQty, &sellPrice, &fee, &taxes); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		p.BuyDate, _ = utils.ParseISODate(buyDate)
		p.Quantity = parseStoredDecimal(quantity)
		p.BuyPrice = parseStoredDecimal(buyPrice)
		if sellDate.Valid && sellDate.String != "" {
			d, _ := utils.ParseISODate(sellDate.String)
			p.SellDate = &d
			p.SellQuantity = parseStoredDecimal(sellQty.String)
			p.SellPrice = parseStoredDecimal(sellPrice.String)
			p.Fee = parseStoredDecimal(fee.String)
			p.Taxes = parseStoredDecimal(taxes.String)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (s *SQLiteStore) Append(p Position) (int, error) {
	res, err := s.db.Exec(`INSERT INTO positions (asset_name, buy_date, quantity, buy_price)
		VALUES (?, ?, ?, ?)`,
		p.AssetName,
		p.BuyDate.Format(utils.ISODateFormat),
		p.Quantity.String(),
		p.BuyPrice.String())
	if err != nil {
		return 0, lockErrSQLite(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (s *SQLiteStore) WriteSale(index int, sale Sale) error {
	res, err := s.db.Exec(`UPDATE positions
		SET sell_date = ?, sell_quantity = ?, sell_price = ?, fee = ?, taxes = ?
		WHERE id = ?`,
		sale.Date.Format(utils.ISODateFormat),
		sale.Quantity.String(),
		sale.Price.String(),
		sale.Fee.String(),
		sale.Taxes.String(),
		index)
	if err != nil {
		return lockErrSQLite(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no ledger row with id %d", index)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func parseStoredDecimal(text string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// lockErrSQLite maps sqlite's busy/locked states onto ErrLedgerLocked.
func lockErrSQLite(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy") {
		return fmt.Errorf("%w: %v", ErrLedgerLocked, err)
	}
	return err
}
