package nse

// Raw DTOs from the NSE public API. They only exist inside this
// package; conversion to domain entities lives in mapping.go.

// --- /api/option-chain-indices ---

type optionChainResponse struct {
	Records chainRecords `json:"records"`
}

type chainRecords struct {
	ExpiryDates     []string   `json:"expiryDates"`
	Data            []chainRow `json:"data"`
	Timestamp       string     `json:"timestamp"`
	UnderlyingValue float64    `json:"underlyingValue"`
}

// chainRow is one strike of the chain. CE or PE may be absent for
// deep strikes that only trade on one side.
type chainRow struct {
	StrikePrice float64    `json:"strikePrice"`
	ExpiryDate  string     `json:"expiryDate"`
	CE          *sideQuote `json:"CE"`
	PE          *sideQuote `json:"PE"`
}

// sideQuote is the call or put half of a strike row.
type sideQuote struct {
	OpenInterest      float64 `json:"openInterest"`
	ChangeInOI        float64 `json:"changeinOpenInterest"`
	TotalTradedVolume float64 `json:"totalTradedVolume"`
	ImpliedVolatility float64 `json:"impliedVolatility"`
	LastPrice         float64 `json:"lastPrice"`
}

// --- /api/quote-derivative ---

type derivativeQuoteResponse struct {
	Stocks []derivativeContract `json:"stocks"`
}

// derivativeContract is one listed contract (futures or options) on
// the underlying. Futures OI sits under the trade info block.
type derivativeContract struct {
	Metadata   contractMetadata `json:"metadata"`
	MarketDept marketDept       `json:"marketDeptOrderBook"`
}

type contractMetadata struct {
	InstrumentType string `json:"instrumentType"`
	ExpiryDate     string `json:"expiryDate"`
}

type marketDept struct {
	TradeInfo tradeInfo `json:"tradeInfo"`
}

type tradeInfo struct {
	OpenInterest float64 `json:"openInterest"`
}
