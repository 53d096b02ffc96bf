package replay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/pkg/logger"
)

// CycleReport is the replay outcome of one fixture cycle
type CycleReport struct {
	Date     time.Time         `json:"date"`
	Outcome  contracts.Outcome `json:"outcome"`
	Symbols  []string          `json:"symbols,omitempty"`
	Universe []string          `json:"universe"` // 해당 시점 유효 유니버스
	Error    string            `json:"error,omitempty"`
	Mismatch string            `json:"mismatch,omitempty"`
}

// Report is the full replay result
type Report struct {
	Name       string        `json:"name"`
	Cycles     []CycleReport `json:"cycles"`
	Recomputed int           `json:"recomputed"`
	Mismatches int           `json:"mismatches"`
}

// Runner replays fixtures through a pipeline in simulated time
// ⭐ SSOT: 시뮬레이션 시간 루프는 여기서만
type Runner struct {
	pipeline *s1_universe.Pipeline
	logger   *logger.Logger
}

// NewRunner creates a replay runner around pipeline
func NewRunner(pipeline *s1_universe.Pipeline, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{
		pipeline: pipeline,
		logger:   log,
	}
}

// Run replays every cycle in order. A failed cycle is reported, not fatal;
// only context cancellation stops the replay early.
func (r *Runner) Run(ctx context.Context, fixture *Fixture) (*Report, error) {
	report := &Report{Name: fixture.Name}
	var universe []string

	for _, cycle := range fixture.Cycles {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := r.pipeline.Run(ctx, cycle.Date, &cycleFeed{cycle: cycle})

		cr := CycleReport{
			Date:    cycle.Date,
			Outcome: result.Outcome,
		}
		if err != nil {
			cr.Error = err.Error()
		}
		if result.Outcome == contracts.OutcomeRecomputed {
			universe = result.Selection.Symbols
			cr.Symbols = universe
			report.Recomputed++
		}
		cr.Universe = universe

		if msg := check(cycle, cr); msg != "" {
			cr.Mismatch = msg
			report.Mismatches++
			r.logger.WithFields(map[string]interface{}{
				"date":     cycle.Date.Format("2006-01-02"),
				"mismatch": msg,
			}).Warn("Replay expectation not met")
		}

		report.Cycles = append(report.Cycles, cr)
	}

	r.logger.WithFields(map[string]interface{}{
		"fixture":    fixture.Name,
		"cycles":     len(report.Cycles),
		"recomputed": report.Recomputed,
		"mismatches": report.Mismatches,
	}).Info("Replay finished")

	return report, nil
}

// check compares a cycle's report with its expectations
func check(cycle Cycle, cr CycleReport) string {
	var problems []string

	if cycle.ExpectOutcome != "" && cycle.ExpectOutcome != cr.Outcome {
		problems = append(problems, fmt.Sprintf("outcome %s, want %s", cr.Outcome, cycle.ExpectOutcome))
	}
	if cycle.ExpectSymbols != nil && !equalSymbols(cycle.ExpectSymbols, cr.Universe) {
		problems = append(problems, fmt.Sprintf("universe %v, want %v", cr.Universe, cycle.ExpectSymbols))
	}

	return strings.Join(problems, "; ")
}

func equalSymbols(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
