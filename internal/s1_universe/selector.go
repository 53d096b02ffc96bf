package s1_universe

import (
	"errors"
	"fmt"
	"time"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/pkg/logger"
)

// ErrNotCached is returned when a fine record's symbol has no cached liquidity.
// Callers must only pass fine records for symbols the coarse stage kept.
var ErrNotCached = errors.New("symbol not in liquidity cache")

// Selector implements the cadence gate, coarse filter and stratified fine filter
// ⭐ SSOT: S1 유니버스 선택 로직은 여기서만
//
// A Selector is not safe for concurrent use; run at most one cycle at a time.
type Selector struct {
	config Config
	state  *State
	logger *logger.Logger
}

var _ contracts.UniverseSelector = (*Selector)(nil)

// NewSelector creates a selector over state.
// A nil state starts empty; a nil logger discards output.
func NewSelector(config Config, state *State, log *logger.Logger) (*Selector, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selector config: %w", err)
	}
	if state == nil {
		state = NewState()
	}
	if state.Liquidity == nil {
		state.Liquidity = LiquidityCache{}
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Selector{
		config: config,
		state:  state,
		logger: log,
	}, nil
}

// Config returns the selector configuration
func (s *Selector) Config() Config {
	return s.config
}

// State returns the selector state (liquidity cache + cycle marker)
func (s *Selector) State() *State {
	return s.state
}

// SelectCoarse runs the cadence gate and the coarse filter
func (s *Selector) SelectCoarse(now time.Time, pool []contracts.CandidateRecord) (contracts.Selection, error) {
	if s.gated(now) {
		return contracts.UnchangedSelection(), nil
	}
	sel, _ := s.coarse(pool)
	return sel, nil
}

// SelectFine runs the stratified fine filter against the cached liquidity
func (s *Selector) SelectFine(now time.Time, records []contracts.FineRecord) (contracts.Selection, error) {
	sel, _, err := s.fine(now, records)
	return sel, err
}

// gated reports whether the universe was already recomputed in now's period
func (s *Selector) gated(now time.Time) bool {
	period := s.config.Period
	if !period.Valid() {
		s.logger.WithField("period", string(period)).
			Warn(`Period not valid. Choose "Day" or "Month". Defaulting to "Month".`)
		period = PeriodMonth
	}

	if s.state.Marker.Matches(period.Truncate(now)) {
		s.logger.WithFields(map[string]interface{}{
			"period": string(period),
			"marker": s.state.Marker.Period,
		}).Debug("Universe already recomputed this period")
		return true
	}
	return false
}

// rankLess orders liquidity values in the configured direction
func (s *Selector) rankLess(a, b float64) bool {
	if s.config.FromTop {
		return a > b
	}
	return a < b
}

// stageReport is the per-stage bookkeeping surfaced in CycleResult
type stageReport struct {
	result   contracts.PipelineResult
	excluded map[string]string
	outcome  contracts.Outcome
}

func newStageReport(stage contracts.Stage, input int) stageReport {
	return stageReport{
		result: contracts.PipelineResult{
			Stage:      stage,
			InputCount: input,
		},
		excluded: make(map[string]string),
	}
}
