package portfolio

import "strings"

// The consolidation engine merges raw holdings that refer to the same
// instrument into one position with a quantity-weighted cost basis and a lot
// list. Stocks and mutual funds run the same algorithm over a neutral lot
// shape and map back to their typed positions.

// lot is the field-name-neutral form of one raw holding.
type lot struct {
	id      string
	key     string // symbol for stocks, scheme name for funds
	name    string
	date    string
	qty     float64
	basis   float64
	price   float64
	change  float64
	pct     float64
	errFlag bool
	stamp   string
}

// position is the neutral merged form; full precision throughout, rounding is
// applied only when mapping to the exported position types.
type position struct {
	key      string
	name     string
	qty      float64
	avg      float64
	invested float64
	price    float64
	change   float64
	pct      float64
	value    float64
	gain     float64
	gainPct  float64
	errFlag  bool
	stamp    string
	lots     []Transaction
}

// consolidate groups lots by key in first-seen order. Output order equals the
// order of first occurrence in the input.
func consolidate(lots []lot) []position {
	var out []position
	index := map[string]int{}

	for _, l := range lots {
		qty := sanitize(l.qty, 0)
		basis := sanitize(l.basis, 0)
		price := sanitize(l.price, 0)

		i, seen := index[l.key]
		if !seen {
			name := strings.TrimSpace(l.name)
			if name == "" {
				name = l.key
			}
			p := position{
				key:      l.key,
				name:     name,
				qty:      qty,
				invested: qty * basis,
				price:    price,
				change:   sanitize(l.change, 0),
				pct:      sanitize(l.pct, 0),
				errFlag:  l.errFlag,
				stamp:    l.stamp,
			}
			p.avg = weightedAvg(p.invested, p.qty)
			index[l.key] = len(out)
			out = append(out, p)
			i = index[l.key]
		} else {
			p := &out[i]
			p.qty += qty
			// The running invested amount is carried forward unrounded; the
			// average is always derived from it, never the reverse, so merges
			// cannot compound rounding drift.
			p.invested += qty * basis
			p.avg = weightedAvg(p.invested, p.qty)

			// Last write wins for market fields, but an unset incoming price
			// keeps the existing one.
			if price != 0 {
				p.price = price
				p.change = sanitize(l.change, 0)
				p.pct = sanitize(l.pct, 0)
			}

			// A name equal to the holding's own key is a placeholder and must
			// not overwrite a previously resolved display name.
			if name := strings.TrimSpace(l.name); name != "" && !strings.EqualFold(name, l.key) {
				p.name = name
			}
			if l.errFlag {
				p.errFlag = true
			}
			if l.stamp != "" {
				p.stamp = l.stamp
			}
		}

		p := &out[i]
		p.lots = append(p.lots, Transaction{
			ID:           l.id,
			Quantity:     qty,
			CostBasis:    basis,
			PurchaseDate: l.date,
		})
		p.value = totalValue(p.qty, p.price)
		p.gain = totalGain(p.value, p.invested)
		p.gainPct = gainPercent(p.gain, p.invested)

		// Every lot is revalued against the position's current price so
		// lot-level gain reflects present market value, not the stale price
		// the lot arrived with.
		for j := range p.lots {
			t := &p.lots[j]
			tv := totalValue(t.Quantity, p.price)
			lotInvested := t.Quantity * t.CostBasis
			gain := totalGain(tv, lotInvested)
			t.TotalValue = tv
			t.TotalGain = gain
			t.GainPercent = gainPercent(gain, lotInvested)
		}
	}
	return out
}

// ConsolidateStocks merges raw stock holdings by symbol.
func ConsolidateStocks(stocks []Stock) []StockPosition {
	lots := make([]lot, 0, len(stocks))
	for _, s := range stocks {
		lots = append(lots, lot{
			id:      s.ID,
			key:     s.Symbol,
			name:    s.Name,
			date:    s.PurchaseDate,
			qty:     s.Quantity,
			basis:   s.PurchasePrice,
			price:   s.CurrentPrice,
			change:  s.Change,
			pct:     s.ChangePercent,
			errFlag: s.PriceError,
			stamp:   s.LastUpdated,
		})
	}

	positions := make([]StockPosition, 0, len(lots))
	for _, p := range consolidate(lots) {
		positions = append(positions, StockPosition{
			Symbol:         p.key,
			Name:           p.name,
			Quantity:       p.qty,
			AvgPrice:       p.avg,
			InvestedAmount: p.invested,
			CurrentPrice:   p.price,
			Change:         p.change,
			ChangePercent:  round2(p.pct),
			TotalValue:     p.value,
			TotalGain:      p.gain,
			GainPercent:    round2(p.gainPct),
			PriceError:     p.errFlag,
			LastUpdated:    p.stamp,
			Transactions:   roundLots(p.lots),
		})
	}
	return positions
}

// ConsolidateMutualFunds merges raw fund holdings by scheme name. Scheme code
// and fund house are taken from the first lot that supplies them.
func ConsolidateMutualFunds(funds []MutualFund) []MutualFundPosition {
	lots := make([]lot, 0, len(funds))
	codes := map[string]string{}
	houses := map[string]string{}
	navDates := map[string]string{}
	for _, f := range funds {
		if f.SchemeCode != "" {
			if _, ok := codes[f.SchemeName]; !ok {
				codes[f.SchemeName] = f.SchemeCode
			}
		}
		if f.FundHouse != "" {
			if _, ok := houses[f.SchemeName]; !ok {
				houses[f.SchemeName] = f.FundHouse
			}
		}
		if f.NAVDate != "" {
			navDates[f.SchemeName] = f.NAVDate
		}
		lots = append(lots, lot{
			id:      f.ID,
			key:     f.SchemeName,
			name:    f.SchemeName,
			date:    f.PurchaseDate,
			qty:     f.Units,
			basis:   f.PurchaseNAV,
			price:   f.CurrentNAV,
			change:  f.Change,
			pct:     f.ChangePercent,
			errFlag: f.NAVError,
			stamp:   f.LastUpdated,
		})
	}

	positions := make([]MutualFundPosition, 0, len(lots))
	for _, p := range consolidate(lots) {
		positions = append(positions, MutualFundPosition{
			SchemeName:     p.key,
			SchemeCode:     codes[p.key],
			FundHouse:      houses[p.key],
			Name:           p.name,
			Units:          p.qty,
			AvgNAV:         p.avg,
			InvestedAmount: p.invested,
			CurrentNAV:     p.price,
			Change:         p.change,
			ChangePercent:  round2(p.pct),
			TotalValue:     p.value,
			TotalGain:      p.gain,
			GainPercent:    round2(p.gainPct),
			NAVError:       p.errFlag,
			NAVDate:        navDates[p.key],
			Transactions:   roundLots(p.lots),
		})
	}
	return positions
}

// roundLots applies boundary rounding to per-lot percentages.
func roundLots(lots []Transaction) []Transaction {
	out := append([]Transaction(nil), lots...)
	for i := range out {
		out[i].GainPercent = round2(out[i].GainPercent)
	}
	return out
}
