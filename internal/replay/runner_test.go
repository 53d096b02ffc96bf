package replay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := s1_universe.DefaultConfig()
	cfg.NFine = 5
	sel, err := s1_universe.NewSelector(cfg, nil, nil)
	require.NoError(t, err)
	return NewRunner(s1_universe.NewPipeline(sel, nil, nil), nil)
}

func TestRunner_StratifiedMonth(t *testing.T) {
	fixture, err := LoadFixture("testdata/stratified_month.yaml")
	require.NoError(t, err)
	require.Len(t, fixture.Cycles, 4)

	report, err := newRunner(t).Run(context.Background(), fixture)
	require.NoError(t, err)

	for _, c := range report.Cycles {
		assert.Empty(t, c.Mismatch, c.Date.String())
		assert.Empty(t, c.Error, c.Date.String())
	}
	assert.Equal(t, 0, report.Mismatches)
	assert.Equal(t, 2, report.Recomputed)

	outcomes := make([]contracts.Outcome, len(report.Cycles))
	for i, c := range report.Cycles {
		outcomes[i] = c.Outcome
	}
	assert.Equal(t, []contracts.Outcome{
		contracts.OutcomeRecomputed,
		contracts.OutcomeGated,
		contracts.OutcomeCoarseEmpty,
		contracts.OutcomeRecomputed,
	}, outcomes)
}

func TestRunner_ReportsMismatch(t *testing.T) {
	fixture, err := ParseFixture([]byte(`
name: wrong
cycles:
  - date: 2024-03-05T00:00:00Z
    candidates:
      - {symbol: AAPL, has_fundamental_data: true, volume: 10, price: 10}
    fine:
      - {symbol: AAPL, market_cap: 1.0e+12, category: "311", listing_date: 1980-12-12T00:00:00Z, country_id: USA, exchange: NAS}
    expect_outcome: unchanged_fine_empty
    expect_symbols: [MSFT]
`))
	require.NoError(t, err)

	report, err := newRunner(t).Run(context.Background(), fixture)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Mismatches)
	assert.Contains(t, report.Cycles[0].Mismatch, "outcome recomputed")
	assert.Contains(t, report.Cycles[0].Mismatch, "[MSFT]")
}

func TestRunner_GatedCycleCarriesUniverse(t *testing.T) {
	fixture, err := ParseFixture([]byte(`
name: carry
cycles:
  - date: 2024-03-05T00:00:00Z
    candidates:
      - {symbol: AAPL, has_fundamental_data: true, volume: 10, price: 10}
    fine:
      - {symbol: AAPL, market_cap: 1.0e+12, category: "311", listing_date: 1980-12-12T00:00:00Z, country_id: USA, exchange: NAS}
  - date: 2024-03-06T00:00:00Z
    candidates:
      - {symbol: AAPL, has_fundamental_data: true, volume: 10, price: 10}
`))
	require.NoError(t, err)

	report, err := newRunner(t).Run(context.Background(), fixture)
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeRecomputed, report.Cycles[0].Outcome)
	assert.Equal(t, contracts.OutcomeGated, report.Cycles[1].Outcome)
	assert.Equal(t, []string{"AAPL"}, report.Cycles[1].Universe)
}

func TestRunner_Cancelled(t *testing.T) {
	fixture, err := LoadFixture("testdata/stratified_month.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newRunner(t).Run(ctx, fixture)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Cycles)
}

func TestParseFixture_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no cycles", "name: empty\ncycles: []\n"},
		{"unknown key", "name: typo\ncycles:\n  - date: 2024-03-05T00:00:00Z\n    candidate: []\n"},
		{"dates out of order", "name: order\ncycles:\n  - date: 2024-03-05T00:00:00Z\n  - date: 2024-03-01T00:00:00Z\n"},
		{"unknown outcome", "name: o\ncycles:\n  - date: 2024-03-05T00:00:00Z\n    expect_outcome: maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestCycleFeed_FiltersToRequestedSymbols(t *testing.T) {
	feed := &cycleFeed{cycle: Cycle{Fine: []contracts.FineRecord{
		{Symbol: "A"}, {Symbol: "B"}, {Symbol: "C"},
	}}}

	got, err := feed.FineRecords(context.Background(), time.Time{}, []string{"C", "A"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Symbol)
	assert.Equal(t, "C", got[1].Symbol)
}
