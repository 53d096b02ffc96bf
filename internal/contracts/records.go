package contracts

import "time"

// CandidateRecord is one entry of the coarse candidate pool.
// Supplied fresh every cycle by the data feed.
type CandidateRecord struct {
	Symbol             string  `json:"symbol" yaml:"symbol"`
	HasFundamentalData bool    `json:"has_fundamental_data" yaml:"has_fundamental_data"`
	Volume             int64   `json:"volume" yaml:"volume"`
	Price              float64 `json:"price" yaml:"price"`
	DollarVolume       float64 `json:"dollar_volume,omitempty" yaml:"dollar_volume,omitempty"` // 거래대금
}

// Liquidity returns the ranking metric.
// Falls back to price × volume when the feed did not fill DollarVolume.
func (c CandidateRecord) Liquidity() float64 {
	if c.DollarVolume != 0 {
		return c.DollarVolume
	}
	return c.Price * float64(c.Volume)
}

// FineRecord carries the fundamental attributes used by the fine stage
type FineRecord struct {
	Symbol      string    `json:"symbol" yaml:"symbol"`
	MarketCap   float64   `json:"market_cap" yaml:"market_cap"`
	Category    string    `json:"category" yaml:"category"` // industry template code
	ListingDate time.Time `json:"listing_date" yaml:"listing_date"`
	CountryID   string    `json:"country_id" yaml:"country_id"`
	Exchange    string    `json:"exchange" yaml:"exchange"` // primary exchange id
}

// AgeDays returns whole days elapsed since listing, floored like a calendar delta
func (f FineRecord) AgeDays(now time.Time) int {
	d := now.Sub(f.ListingDate)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
