package s1_universe

import "time"

// LiquidityCache maps symbol → liquidity metric of the last coarse run
type LiquidityCache map[string]float64

// CycleMarker is the start of the period in which the universe was last recomputed
type CycleMarker struct {
	Period time.Time `json:"period"`
}

// IsZero reports whether no cycle has recomputed yet
func (m CycleMarker) IsZero() bool {
	return m.Period.IsZero()
}

// Matches reports whether periodStart is the marked period
func (m CycleMarker) Matches(periodStart time.Time) bool {
	return !m.IsZero() && m.Period.Equal(periodStart)
}

// State is the only process-lifetime state of a selector.
// One State per selector instance; never shared between instances.
type State struct {
	Liquidity LiquidityCache `json:"liquidity"`
	Marker    CycleMarker    `json:"marker"`
}

// NewState returns an empty state
func NewState() *State {
	return &State{Liquidity: LiquidityCache{}}
}
