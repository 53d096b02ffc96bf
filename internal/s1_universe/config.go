package s1_universe

import (
	"fmt"
	"math"
	"time"
)

// Period is the re-evaluation granularity of the universe
type Period string

const (
	PeriodDay   Period = "Day"
	PeriodMonth Period = "Month"
)

// Valid reports whether p is a recognized granularity
func (p Period) Valid() bool {
	return p == PeriodDay || p == PeriodMonth
}

// Truncate returns the start of the period containing t, in t's location.
// Unrecognized periods truncate to the month.
func (p Period) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	if p == PeriodDay {
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// NoRecentLimit disables the "recently listed" age policy
const NoRecentLimit = -1

// Config holds the selection parameters. Immutable once a Selector is built.
type Config struct {
	// Coarse stage
	NCoarse   int     // 1차 필터 최대 종목 수
	MinVolume int64   // 최소 거래량 (초과)
	MinPrice  float64 // 가격 하한 (초과)
	MaxPrice  float64 // 가격 상한 (미만)

	// Fine stage
	NFine           int      // 최종 유니버스 크기
	MinAgeDays      int      // 상장 후 최소 일수 (RecentDays 미사용 시)
	RecentDays      int      // 상장 후 최대 일수, NoRecentLimit 이면 미사용
	MinMarketCap    float64  // 최소 시가총액 (초과)
	RestrictCountry bool     // 국가/거래소 제한 여부
	CountryID       string   // 허용 국가 코드
	Markets         []string // 허용 거래소 코드

	// Shared
	Period  Period // "Day" | "Month"
	FromTop bool   // true: 유동성 높은 순, false: 낮은 순
	Verbose bool   // 편입 종목 로그
}

// DefaultConfig returns the stock parameter set
func DefaultConfig() Config {
	return Config{
		NCoarse:         1000,
		MinVolume:       0,
		MinPrice:        0,
		MaxPrice:        math.Inf(1),
		NFine:           500,
		MinAgeDays:      1250,
		RecentDays:      NoRecentLimit,
		MinMarketCap:    5e8,
		RestrictCountry: true,
		CountryID:       "USA",
		Markets:         []string{"NYS", "NAS"},
		Period:          PeriodMonth,
		FromTop:         true,
		Verbose:         false,
	}
}

// Validate checks the hard constraints.
// An unrecognized Period is not an error; the gate falls back to months.
func (c Config) Validate() error {
	if c.NCoarse < 1 {
		return fmt.Errorf("n_coarse must be >= 1, got %d", c.NCoarse)
	}
	if c.NFine < 1 {
		return fmt.Errorf("n_fine must be >= 1, got %d", c.NFine)
	}
	if math.IsNaN(c.MinPrice) || math.IsNaN(c.MaxPrice) {
		return fmt.Errorf("price bounds must be numbers")
	}
	if c.MaxPrice <= c.MinPrice {
		return fmt.Errorf("max_price (%v) must be greater than min_price (%v)", c.MaxPrice, c.MinPrice)
	}
	if c.RecentDays != NoRecentLimit && c.RecentDays <= 0 {
		return fmt.Errorf("recent_days must be %d (disabled) or > 0, got %d", NoRecentLimit, c.RecentDays)
	}
	if c.RestrictCountry && c.CountryID == "" {
		return fmt.Errorf("country_id is required when restrict_country is enabled")
	}
	return nil
}

// allowsMarket reports whether exchange is one of the configured markets
func (c Config) allowsMarket(exchange string) bool {
	for _, m := range c.Markets {
		if m == exchange {
			return true
		}
	}
	return false
}
