package portfolio

// Stock is a raw equity holding exactly as stored in the portfolio document.
// Valuation fields (CurrentPrice, Change, TotalValue, ...) are refreshed by
// market-data passes; PriceError marks a holding whose latest lookup failed.
type Stock struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	PurchaseDate  string  `json:"purchaseDate,omitempty"`
	CurrentPrice  float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	TotalValue    float64 `json:"totalValue"`
	TotalGain     float64 `json:"totalGain"`
	GainPercent   float64 `json:"gainPercent"`
	PriceError    bool    `json:"priceError,omitempty"`
	LastUpdated   string  `json:"lastUpdated,omitempty"`
}

// MutualFund is a raw mutual-fund holding. SchemeCode is resolved lazily from
// the scheme name on the first refresh and cached back onto the holding.
type MutualFund struct {
	ID            string  `json:"id"`
	SchemeName    string  `json:"schemeName"`
	SchemeCode    string  `json:"schemeCode,omitempty"`
	FundHouse     string  `json:"fundHouse,omitempty"`
	Units         float64 `json:"units"`
	PurchaseNAV   float64 `json:"purchaseNav"`
	PurchaseDate  string  `json:"purchaseDate,omitempty"`
	CurrentNAV    float64 `json:"currentNav"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	TotalValue    float64 `json:"totalValue"`
	TotalGain     float64 `json:"totalGain"`
	GainPercent   float64 `json:"gainPercent"`
	NAVError      bool    `json:"navError,omitempty"`
	NAVDate       string  `json:"navDate,omitempty"`
	LastUpdated   string  `json:"lastUpdated,omitempty"`
}

// Portfolio is the whole document: two flat holding collections plus the
// timestamp of the last completed market-data pass.
type Portfolio struct {
	Stocks      []Stock      `json:"stocks"`
	MutualFunds []MutualFund `json:"mutualFunds"`
	LastUpdated string       `json:"lastUpdated,omitempty"`
}

// Transaction is one lot inside a consolidated position. Its valuation fields
// are computed against the owning position's current price, not the price the
// lot was bought at, so every lot of a position reflects present market value.
type Transaction struct {
	ID           string  `json:"id"`
	Quantity     float64 `json:"quantity"`
	CostBasis    float64 `json:"costBasis"`
	PurchaseDate string  `json:"purchaseDate,omitempty"`
	TotalValue   float64 `json:"totalValue"`
	TotalGain    float64 `json:"totalGain"`
	GainPercent  float64 `json:"gainPercent"`
}

// StockPosition is the merged view of every raw stock holding sharing a symbol.
type StockPosition struct {
	Symbol         string        `json:"symbol"`
	Name           string        `json:"name"`
	Quantity       float64       `json:"quantity"`
	AvgPrice       float64       `json:"avgPrice"`
	InvestedAmount float64       `json:"investedAmount"`
	CurrentPrice   float64       `json:"currentPrice"`
	Change         float64       `json:"change"`
	ChangePercent  float64       `json:"changePercent"`
	TotalValue     float64       `json:"totalValue"`
	TotalGain      float64       `json:"totalGain"`
	GainPercent    float64       `json:"gainPercent"`
	PriceError     bool          `json:"priceError,omitempty"`
	LastUpdated    string        `json:"lastUpdated,omitempty"`
	Transactions   []Transaction `json:"transactions"`
}

// MutualFundPosition is the merged view of raw fund holdings sharing a scheme.
type MutualFundPosition struct {
	SchemeName     string        `json:"schemeName"`
	SchemeCode     string        `json:"schemeCode,omitempty"`
	FundHouse      string        `json:"fundHouse,omitempty"`
	Name           string        `json:"name"`
	Units          float64       `json:"units"`
	AvgNAV         float64       `json:"avgNav"`
	InvestedAmount float64       `json:"investedAmount"`
	CurrentNAV     float64       `json:"currentNav"`
	Change         float64       `json:"change"`
	ChangePercent  float64       `json:"changePercent"`
	TotalValue     float64       `json:"totalValue"`
	TotalGain      float64       `json:"totalGain"`
	GainPercent    float64       `json:"gainPercent"`
	NAVError       bool          `json:"navError,omitempty"`
	NAVDate        string        `json:"navDate,omitempty"`
	Transactions   []Transaction `json:"transactions"`
}

// ConsolidatedPortfolio is the read-path view served to clients.
type ConsolidatedPortfolio struct {
	Stocks      []StockPosition      `json:"stocks"`
	MutualFunds []MutualFundPosition `json:"mutualFunds"`
	LastUpdated string               `json:"lastUpdated,omitempty"`
}

// AddStockRequest defines inputs to add a stock holding. Numeric fields are
// typed any so malformed client input degrades to a default instead of a
// decode failure; see toFloat.
type AddStockRequest struct {
	Symbol       string
	Name         string
	Quantity     any
	Price        any
	PurchaseDate string
}

// UpdateStockRequest carries partial updates; nil fields keep prior values.
type UpdateStockRequest struct {
	Name         *string
	Quantity     any
	Price        any
	PurchaseDate *string
}

// AddMutualFundRequest defines inputs to add a mutual-fund holding.
type AddMutualFundRequest struct {
	SchemeName   string
	SchemeCode   string
	Units        any
	NAV          any
	PurchaseDate string
}

// UpdateMutualFundRequest carries partial updates; nil fields keep prior values.
type UpdateMutualFundRequest struct {
	SchemeName   *string
	Units        any
	NAV          any
	PurchaseDate *string
}

// RefreshSummary reports one completed market-data pass. The pass itself never
// fails as a whole; failures are visible as per-holding error flags and the
// failed counts here.
type RefreshSummary struct {
	StocksUpdated int    `json:"stocks_updated"`
	StocksFailed  int    `json:"stocks_failed"`
	FundsUpdated  int    `json:"funds_updated"`
	FundsFailed   int    `json:"funds_failed"`
	DurationMS    int64  `json:"duration_ms"`
	LastUpdated   string `json:"last_updated"`
}

// RefreshLog is a persisted audit row for a past refresh pass.
type RefreshLog struct {
	ID            int64   `json:"id"`
	StocksUpdated int     `json:"stocks_updated"`
	StocksFailed  int     `json:"stocks_failed"`
	FundsUpdated  int     `json:"funds_updated"`
	FundsFailed   int     `json:"funds_failed"`
	DurationMS    int64   `json:"duration_ms"`
	Details       *string `json:"details,omitempty"`
	CreatedAt     string  `json:"created_at"`
}
