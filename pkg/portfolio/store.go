package portfolio

import "database/sql"

// The store is the persistence collaborator: it owns the read-modify-write
// cycle of the whole document. Loads return a fresh Portfolio value; saves
// rewrite every row plus the document timestamp in one transaction, so a
// failed save never leaves a partially written document.

const metaLastUpdated = "last_updated"

// loadPortfolio reads the full document. Row order follows id, which is
// creation-ordered (UUIDv7), so collections come back in insertion order.
func (c *Core) loadPortfolio() (Portfolio, error) {
	var p Portfolio

	rows, err := c.db.Query(`
		SELECT id, symbol, name, quantity, purchase_price, purchase_date,
			current_price, change, change_percent, total_value, total_gain,
			gain_percent, price_error, last_updated
		FROM stocks ORDER BY id
	`)
	if err != nil {
		return p, WrapError(ErrCodeDatabase, "load stocks", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s Stock
		var name, date, stamp sql.NullString
		var priceError int
		if err := rows.Scan(&s.ID, &s.Symbol, &name, &s.Quantity, &s.PurchasePrice, &date,
			&s.CurrentPrice, &s.Change, &s.ChangePercent, &s.TotalValue, &s.TotalGain,
			&s.GainPercent, &priceError, &stamp); err != nil {
			return p, WrapError(ErrCodeDatabase, "scan stock", err)
		}
		s.Name = name.String
		s.PurchaseDate = date.String
		s.LastUpdated = stamp.String
		s.PriceError = priceError != 0
		p.Stocks = append(p.Stocks, s)
	}
	if err := rows.Err(); err != nil {
		return p, WrapError(ErrCodeDatabase, "load stocks", err)
	}

	fundRows, err := c.db.Query(`
		SELECT id, scheme_name, scheme_code, fund_house, units, purchase_nav,
			purchase_date, current_nav, change, change_percent, total_value,
			total_gain, gain_percent, nav_error, nav_date, last_updated
		FROM mutual_funds ORDER BY id
	`)
	if err != nil {
		return p, WrapError(ErrCodeDatabase, "load mutual funds", err)
	}
	defer fundRows.Close()
	for fundRows.Next() {
		var f MutualFund
		var code, house, date, navDate, stamp sql.NullString
		var navError int
		if err := fundRows.Scan(&f.ID, &f.SchemeName, &code, &house, &f.Units, &f.PurchaseNAV,
			&date, &f.CurrentNAV, &f.Change, &f.ChangePercent, &f.TotalValue,
			&f.TotalGain, &f.GainPercent, &navError, &navDate, &stamp); err != nil {
			return p, WrapError(ErrCodeDatabase, "scan mutual fund", err)
		}
		f.SchemeCode = code.String
		f.FundHouse = house.String
		f.PurchaseDate = date.String
		f.NAVDate = navDate.String
		f.LastUpdated = stamp.String
		f.NAVError = navError != 0
		p.MutualFunds = append(p.MutualFunds, f)
	}
	if err := fundRows.Err(); err != nil {
		return p, WrapError(ErrCodeDatabase, "load mutual funds", err)
	}

	var last sql.NullString
	err = c.db.QueryRow("SELECT value FROM meta WHERE key = ?", metaLastUpdated).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return p, WrapError(ErrCodeDatabase, "load meta", err)
	}
	p.LastUpdated = last.String
	return p, nil
}

// savePortfolio replaces the persisted document with p in one transaction.
func (c *Core) savePortfolio(p Portfolio) error {
	tx, err := c.db.Begin()
	if err != nil {
		return WrapError(ErrCodeDatabase, "begin save", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec("DELETE FROM stocks"); err != nil {
		return WrapError(ErrCodeDatabase, "clear stocks", err)
	}
	for _, s := range p.Stocks {
		if _, err := tx.Exec(`
			INSERT INTO stocks (id, symbol, name, quantity, purchase_price, purchase_date,
				current_price, change, change_percent, total_value, total_gain,
				gain_percent, price_error, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.Symbol, nullable(s.Name), s.Quantity, s.PurchasePrice, nullable(s.PurchaseDate),
			s.CurrentPrice, s.Change, s.ChangePercent, s.TotalValue, s.TotalGain,
			s.GainPercent, boolToInt(s.PriceError), nullable(s.LastUpdated)); err != nil {
			return WrapError(ErrCodeDatabase, "insert stock", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM mutual_funds"); err != nil {
		return WrapError(ErrCodeDatabase, "clear mutual funds", err)
	}
	for _, f := range p.MutualFunds {
		if _, err := tx.Exec(`
			INSERT INTO mutual_funds (id, scheme_name, scheme_code, fund_house, units,
				purchase_nav, purchase_date, current_nav, change, change_percent,
				total_value, total_gain, gain_percent, nav_error, nav_date, last_updated)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, f.ID, f.SchemeName, nullable(f.SchemeCode), nullable(f.FundHouse), f.Units,
			f.PurchaseNAV, nullable(f.PurchaseDate), f.CurrentNAV, f.Change, f.ChangePercent,
			f.TotalValue, f.TotalGain, f.GainPercent, boolToInt(f.NAVError),
			nullable(f.NAVDate), nullable(f.LastUpdated)); err != nil {
			return WrapError(ErrCodeDatabase, "insert mutual fund", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaLastUpdated, p.LastUpdated); err != nil {
		return WrapError(ErrCodeDatabase, "save meta", err)
	}

	if err := tx.Commit(); err != nil {
		return WrapError(ErrCodeDatabase, "commit save", err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
