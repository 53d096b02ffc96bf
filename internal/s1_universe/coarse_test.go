package s1_universe

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-universe/internal/contracts"
)

func TestSelectCoarse_Example(t *testing.T) {
	cfg := openConfig()
	cfg.MinVolume = 0
	cfg.MinPrice = 0
	cfg.MaxPrice = 100
	sel, _ := newTestSelector(t, cfg)

	volumes := []int64{100, 200, 0, 50, 300}
	prices := []float64{10, 20, 10, 10, 10}
	pool := make([]contracts.CandidateRecord, len(volumes))
	for i := range volumes {
		pool[i] = contracts.CandidateRecord{
			Symbol:             string(rune('A' + i)),
			HasFundamentalData: true,
			Volume:             volumes[i],
			Price:              prices[i],
		}
	}

	res, err := sel.SelectCoarse(march5, pool)
	require.NoError(t, err)

	// C has zero volume; the rest ranked by price × volume: B=4000, E=3000, A=1000, D=500
	assert.False(t, res.Unchanged)
	assert.Equal(t, []string{"B", "E", "A", "D"}, res.Symbols)
	assert.Equal(t, LiquidityCache{"B": 4000, "E": 3000, "A": 1000, "D": 500}, sel.State().Liquidity)
}

func TestCheckCoarseExclusion(t *testing.T) {
	cfg := openConfig()
	cfg.MinVolume = 100
	cfg.MinPrice = 5
	cfg.MaxPrice = 500
	sel, _ := newTestSelector(t, cfg)

	tests := []struct {
		name     string
		record   contracts.CandidateRecord
		excluded bool
	}{
		{"passes", contracts.CandidateRecord{HasFundamentalData: true, Volume: 101, Price: 10}, false},
		{"no fundamentals", contracts.CandidateRecord{HasFundamentalData: false, Volume: 1000, Price: 10}, true},
		{"volume equal to floor", contracts.CandidateRecord{HasFundamentalData: true, Volume: 100, Price: 10}, true},
		{"price at lower bound", contracts.CandidateRecord{HasFundamentalData: true, Volume: 1000, Price: 5}, true},
		{"price at upper bound", contracts.CandidateRecord{HasFundamentalData: true, Volume: 1000, Price: 500}, true},
		{"price just inside upper bound", contracts.CandidateRecord{HasFundamentalData: true, Volume: 1000, Price: 499.99}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := sel.checkCoarseExclusion(tt.record)
			assert.Equal(t, tt.excluded, reason != "", "reason=%q", reason)
		})
	}
}

func TestSelectCoarse_CapInvariant(t *testing.T) {
	cfg := openConfig()
	cfg.NCoarse = 25
	cfg.MinVolume = 500
	cfg.MinPrice = 1
	cfg.MaxPrice = 300
	sel, _ := newTestSelector(t, cfg)

	rng := rand.New(rand.NewSource(42))
	pool := make([]contracts.CandidateRecord, 200)
	for i := range pool {
		pool[i] = contracts.CandidateRecord{
			Symbol:             fmt.Sprintf("S%03d", i),
			HasFundamentalData: rng.Intn(5) != 0,
			Volume:             int64(rng.Intn(2000)),
			Price:              rng.Float64() * 400,
		}
	}
	bySymbol := make(map[string]contracts.CandidateRecord, len(pool))
	for _, c := range pool {
		bySymbol[c.Symbol] = c
	}

	res, err := sel.SelectCoarse(march5, pool)
	require.NoError(t, err)
	require.False(t, res.Unchanged)

	assert.LessOrEqual(t, res.Len(), cfg.NCoarse)
	assert.Len(t, sel.State().Liquidity, res.Len())
	for i, sym := range res.Symbols {
		c := bySymbol[sym]
		assert.True(t, c.HasFundamentalData, sym)
		assert.Greater(t, c.Volume, cfg.MinVolume, sym)
		assert.Greater(t, c.Price, cfg.MinPrice, sym)
		assert.Less(t, c.Price, cfg.MaxPrice, sym)
		if i > 0 {
			assert.GreaterOrEqual(t, bySymbol[res.Symbols[i-1]].Liquidity(), c.Liquidity())
		}
	}
}

func TestSelectCoarse_Truncates(t *testing.T) {
	cfg := openConfig()
	cfg.NCoarse = 2
	sel, _ := newTestSelector(t, cfg)

	sel2, report := sel.coarse([]contracts.CandidateRecord{
		candidate("LOW", 1),
		candidate("HIGH", 3),
		candidate("MID", 2),
	})

	assert.Equal(t, []string{"HIGH", "MID"}, sel2.Symbols)
	assert.Equal(t, LiquidityCache{"HIGH": 3, "MID": 2}, sel.State().Liquidity)
	assert.Contains(t, report.excluded, "LOW")
	assert.Equal(t, 3, report.result.InputCount)
	assert.Equal(t, 2, report.result.OutputCount)
}

func TestSelectCoarse_Ascending(t *testing.T) {
	cfg := openConfig()
	cfg.FromTop = false
	sel, _ := newTestSelector(t, cfg)

	res, err := sel.SelectCoarse(march5, []contracts.CandidateRecord{
		candidate("HIGH", 3),
		candidate("LOW", 1),
		candidate("MID", 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"LOW", "MID", "HIGH"}, res.Symbols)
}

func TestSelectCoarse_TiesKeepInputOrder(t *testing.T) {
	for _, fromTop := range []bool{true, false} {
		t.Run(fmt.Sprintf("from_top=%v", fromTop), func(t *testing.T) {
			cfg := openConfig()
			cfg.FromTop = fromTop
			cfg.NCoarse = 3
			sel, _ := newTestSelector(t, cfg)

			res, err := sel.SelectCoarse(march5, []contracts.CandidateRecord{
				candidate("Z", 5),
				candidate("Y", 5),
				candidate("X", 5),
				candidate("W", 5),
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"Z", "Y", "X"}, res.Symbols)
		})
	}
}

func TestSelectCoarse_EmptyOverwritesCache(t *testing.T) {
	sel, _ := newTestSelector(t, openConfig())
	seed(t, sel, march5, []contracts.CandidateRecord{candidate("AAPL", 10)})
	require.Len(t, sel.State().Liquidity, 1)

	res, err := sel.SelectCoarse(march5, []contracts.CandidateRecord{
		{Symbol: "NOFUND", HasFundamentalData: false, Volume: 100, Price: 10},
	})
	require.NoError(t, err)

	assert.True(t, res.Unchanged)
	assert.Empty(t, sel.State().Liquidity)
	assert.True(t, sel.State().Marker.IsZero())
}

func TestCandidateRecord_Liquidity(t *testing.T) {
	assert.Equal(t, 2500.0, contracts.CandidateRecord{Price: 25, Volume: 100}.Liquidity())
	assert.Equal(t, 99.0, contracts.CandidateRecord{Price: 25, Volume: 100, DollarVolume: 99}.Liquidity())
}

func TestSelectCoarse_DuplicateSymbols(t *testing.T) {
	sel, _ := newTestSelector(t, openConfig())

	res, err := sel.SelectCoarse(march5, []contracts.CandidateRecord{
		candidate("A", 10),
		candidate("A", 20),
		candidate("B", 5),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, res.Symbols)
	assert.Equal(t, LiquidityCache{"A": 20, "B": 5}, sel.State().Liquidity)
}
