package s1_universe

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/pkg/logger"
)

var (
	march5  = time.Date(2024, 3, 5, 16, 0, 0, 0, time.UTC)
	march20 = time.Date(2024, 3, 20, 16, 0, 0, 0, time.UTC)
	april1  = time.Date(2024, 4, 1, 16, 0, 0, 0, time.UTC)
	oldIPO  = time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)
)

// openConfig admits everything the tests feed in unless a test tightens it
func openConfig() Config {
	cfg := DefaultConfig()
	cfg.MinMarketCap = 0
	cfg.RestrictCountry = false
	return cfg
}

func newTestSelector(t *testing.T, cfg Config) (*Selector, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	sel, err := NewSelector(cfg, nil, logger.NewWithWriter(&buf, "debug"))
	require.NoError(t, err)
	return sel, &buf
}

func candidate(symbol string, liquidity float64) contracts.CandidateRecord {
	return contracts.CandidateRecord{
		Symbol:             symbol,
		HasFundamentalData: true,
		Volume:             1000,
		Price:              10,
		DollarVolume:       liquidity,
	}
}

func fineRecord(symbol, category string) contracts.FineRecord {
	return contracts.FineRecord{
		Symbol:      symbol,
		MarketCap:   1e9,
		Category:    category,
		ListingDate: oldIPO,
		CountryID:   "USA",
		Exchange:    "NYS",
	}
}

// seed runs a coarse stage so that every candidate lands in the liquidity cache
func seed(t *testing.T, sel *Selector, now time.Time, pool []contracts.CandidateRecord) {
	t.Helper()
	res, err := sel.SelectCoarse(now, pool)
	require.NoError(t, err)
	require.False(t, res.Unchanged)
}

type fakeFeed struct {
	candidates     []contracts.CandidateRecord
	fine           []contracts.FineRecord
	candidatesErr  error
	candidateCalls int
	fineCalls      int
	requested      []string
}

func (f *fakeFeed) Candidates(ctx context.Context, date time.Time) ([]contracts.CandidateRecord, error) {
	f.candidateCalls++
	return f.candidates, f.candidatesErr
}

func (f *fakeFeed) FineRecords(ctx context.Context, date time.Time, symbols []string) ([]contracts.FineRecord, error) {
	f.fineCalls++
	f.requested = symbols
	want := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		want[s] = true
	}
	out := make([]contracts.FineRecord, 0, len(symbols))
	for _, r := range f.fine {
		if want[r.Symbol] {
			out = append(out, r)
		}
	}
	return out, nil
}

// stratifiedFixture builds category A (7 members) and B (3 members).
// Liquidity: A = 100..40 step 10, B = 65, 55, 5.
func stratifiedFixture() ([]contracts.CandidateRecord, []contracts.FineRecord) {
	var pool []contracts.CandidateRecord
	var fine []contracts.FineRecord
	for i := 0; i < 7; i++ {
		sym := fmt.Sprintf("A%d", i+1)
		pool = append(pool, candidate(sym, float64(100-10*i)))
		fine = append(fine, fineRecord(sym, "A"))
	}
	for i, liq := range []float64{65, 55, 5} {
		sym := fmt.Sprintf("B%d", i+1)
		pool = append(pool, candidate(sym, liq))
		fine = append(fine, fineRecord(sym, "B"))
	}
	return pool, fine
}
