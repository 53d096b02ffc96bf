package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/pkg/logger"
)

// UniverseJob runs one selection cycle per cron tick and holds the
// last published universe.
// ⭐ SSOT: Universe 생성 스케줄은 이 Job에서만
type UniverseJob struct {
	pipeline *s1_universe.Pipeline
	feed     s1_universe.Feed
	store    *s1_universe.StateStore // nil: 상태 비영속
	schedule string
	loc      *time.Location
	now      func() time.Time
	logger   *logger.Logger

	runMu sync.Mutex // selector는 동시 실행 불가

	mu      sync.RWMutex
	current *contracts.Universe
	last    *s1_universe.CycleResult
}

// NewUniverseJob creates a new universe job.
// store may be nil; loc nil means UTC.
func NewUniverseJob(
	pipeline *s1_universe.Pipeline,
	feed s1_universe.Feed,
	store *s1_universe.StateStore,
	schedule string,
	loc *time.Location,
	log *logger.Logger,
) *UniverseJob {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UniverseJob{
		pipeline: pipeline,
		feed:     feed,
		store:    store,
		schedule: schedule,
		loc:      loc,
		now:      time.Now,
		logger:   log,
	}
}

// Name returns the job name
func (j *UniverseJob) Name() string {
	return "universe_selection"
}

// Schedule returns the cron schedule from the strategy config
func (j *UniverseJob) Schedule() string {
	return j.schedule
}

// MaxRetries disables scheduler retries; a failed cycle waits for the next tick
func (j *UniverseJob) MaxRetries() int {
	return 0
}

// Restore loads the last published universe from the store
func (j *UniverseJob) Restore(ctx context.Context) error {
	if j.store == nil {
		return nil
	}
	u, err := j.store.LoadUniverse(ctx)
	if err != nil {
		return err
	}
	if u != nil {
		j.mu.Lock()
		j.current = u
		j.mu.Unlock()
		j.logger.WithFields(map[string]interface{}{
			"date":  u.Date.Format("2006-01-02"),
			"count": u.Count(),
		}).Info("Restored published universe")
	}
	return nil
}

// Run executes one cycle at the current time in the job's location
func (j *UniverseJob) Run(ctx context.Context) error {
	_, err := j.RunAt(ctx, j.now().In(j.loc))
	return err
}

// RunAt executes one cycle at now
func (j *UniverseJob) RunAt(ctx context.Context, now time.Time) (*s1_universe.CycleResult, error) {
	j.runMu.Lock()
	defer j.runMu.Unlock()

	result, runErr := j.pipeline.Run(ctx, now, j.feed)

	j.mu.Lock()
	j.last = result
	published := result.Universe()
	if published != nil {
		j.current = published
	}
	j.mu.Unlock()

	// 게이트 사이클은 상태 변경 없음
	if result.Outcome != contracts.OutcomeGated {
		if err := j.persist(ctx, published); err != nil {
			if runErr == nil {
				return result, err
			}
			j.logger.WithError(err).Warn("State not persisted after failed cycle")
		}
	}

	return result, runErr
}

func (j *UniverseJob) persist(ctx context.Context, published *contracts.Universe) error {
	if j.store == nil {
		return nil
	}
	if err := j.store.Save(ctx, j.pipeline.Selector().State()); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	if published != nil {
		if err := j.store.SaveUniverse(ctx, published); err != nil {
			return fmt.Errorf("persist universe: %w", err)
		}
	}
	return nil
}

// Current returns the last published universe, or nil before the first recompute
func (j *UniverseJob) Current() *contracts.Universe {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.current
}

// LastResult returns the report of the most recent cycle
func (j *UniverseJob) LastResult() *s1_universe.CycleResult {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}
