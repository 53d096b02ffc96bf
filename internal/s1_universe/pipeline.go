package s1_universe

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/pkg/logger"
)

// Feed supplies the per-cycle record sets
type Feed interface {
	// Candidates returns the full candidate pool for date
	Candidates(ctx context.Context, date time.Time) ([]contracts.CandidateRecord, error)

	// FineRecords returns fundamental records for the given symbols
	FineRecords(ctx context.Context, date time.Time, symbols []string) ([]contracts.FineRecord, error)
}

// Recorder receives one observation per cycle
type Recorder interface {
	ObserveCycle(outcome contracts.Outcome, duration time.Duration, coarseCount, fineCount int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveCycle(contracts.Outcome, time.Duration, int, int) {}

// CycleResult reports what one Run did
type CycleResult struct {
	Date      time.Time                  `json:"date"`
	Outcome   contracts.Outcome          `json:"outcome"`
	Selection contracts.Selection        `json:"selection"`
	Stages    []contracts.PipelineResult `json:"stages"`
	Excluded  map[string]string          `json:"excluded,omitempty"`
	Duration  time.Duration              `json:"duration"`
}

// Universe converts a recomputed cycle into the published form.
// Returns nil when the cycle left the universe unchanged.
func (r *CycleResult) Universe() *contracts.Universe {
	if r.Outcome != contracts.OutcomeRecomputed {
		return nil
	}
	return &contracts.Universe{
		Date:       r.Date,
		Symbols:    r.Selection.Symbols,
		Excluded:   r.Excluded,
		TotalCount: len(r.Selection.Symbols),
	}
}

func (r *CycleResult) addStage(report stageReport) {
	r.Stages = append(r.Stages, report.result)
	for sym, reason := range report.excluded {
		r.Excluded[sym] = reason
	}
	if report.outcome != "" {
		r.Outcome = report.outcome
	}
}

func (r *CycleResult) stageCount(stage contracts.Stage) int {
	for _, st := range r.Stages {
		if st.Stage == stage {
			return st.OutputCount
		}
	}
	return 0
}

// Pipeline runs Cadence → Coarse → Fine against a Feed
// ⭐ SSOT: 사이클 실행 순서는 여기서만
type Pipeline struct {
	selector *Selector
	recorder Recorder
	logger   *logger.Logger
}

// NewPipeline creates a pipeline around selector. recorder may be nil.
func NewPipeline(selector *Selector, recorder Recorder, log *logger.Logger) *Pipeline {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{
		selector: selector,
		recorder: recorder,
		logger:   log,
	}
}

// Selector returns the wrapped selector
func (p *Pipeline) Selector() *Selector {
	return p.selector
}

// Run executes one cycle at now. The feed is not queried when the gate closes.
func (p *Pipeline) Run(ctx context.Context, now time.Time, feed Feed) (*CycleResult, error) {
	start := time.Now()
	result := &CycleResult{
		Date:     now,
		Excluded: make(map[string]string),
	}

	err := p.run(ctx, now, feed, result)
	result.Duration = time.Since(start)

	if err != nil {
		result.Outcome = contracts.OutcomeFailed
		result.Selection = contracts.Selection{}
	}

	p.recorder.ObserveCycle(result.Outcome, result.Duration,
		result.stageCount(contracts.StageCoarse), result.stageCount(contracts.StageFine))

	log := p.logger.WithFields(map[string]interface{}{
		"date":     now.Format("2006-01-02"),
		"outcome":  string(result.Outcome),
		"selected": result.Selection.Len(),
		"duration": result.Duration,
	})
	if err != nil {
		log.WithError(err).Error("Universe cycle failed")
		return result, err
	}
	log.Info("Universe cycle completed")

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, now time.Time, feed Feed, result *CycleResult) error {
	// 1. Cadence gate
	gated := p.selector.gated(now)
	result.Stages = append(result.Stages, contracts.PipelineResult{
		Stage:     contracts.StageCadence,
		Success:   true,
		Unchanged: gated,
	})
	if gated {
		result.Outcome = contracts.OutcomeGated
		result.Selection = contracts.UnchangedSelection()
		return nil
	}

	// 2. Coarse
	pool, err := feed.Candidates(ctx, now)
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}

	coarseSel, coarseReport := p.selector.coarse(pool)
	result.addStage(coarseReport)
	if coarseSel.Unchanged {
		result.Selection = coarseSel
		return nil
	}

	// 3. Fine
	records, err := feed.FineRecords(ctx, now, coarseSel.Symbols)
	if err != nil {
		return fmt.Errorf("load fine records: %w", err)
	}

	fineSel, fineReport, err := p.selector.fine(now, records)
	result.addStage(fineReport)
	if err != nil {
		return fmt.Errorf("fine selection: %w", err)
	}

	result.Selection = fineSel
	return nil
}
