package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/pkg/redis"
)

type staticFeed struct {
	candidates []contracts.CandidateRecord
	fine       []contracts.FineRecord
	err        error
}

func (f *staticFeed) Candidates(ctx context.Context, date time.Time) ([]contracts.CandidateRecord, error) {
	return f.candidates, f.err
}

func (f *staticFeed) FineRecords(ctx context.Context, date time.Time, symbols []string) ([]contracts.FineRecord, error) {
	return f.fine, nil
}

func testFeed() *staticFeed {
	listed := time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)
	return &staticFeed{
		candidates: []contracts.CandidateRecord{
			{Symbol: "AAPL", HasFundamentalData: true, Volume: 100, Price: 10, DollarVolume: 300},
			{Symbol: "MSFT", HasFundamentalData: true, Volume: 100, Price: 10, DollarVolume: 200},
			{Symbol: "XOM", HasFundamentalData: true, Volume: 100, Price: 10, DollarVolume: 100},
		},
		fine: []contracts.FineRecord{
			{Symbol: "AAPL", MarketCap: 1e12, Category: "tech", ListingDate: listed, CountryID: "USA", Exchange: "NAS"},
			{Symbol: "MSFT", MarketCap: 1e12, Category: "tech", ListingDate: listed, CountryID: "USA", Exchange: "NAS"},
			{Symbol: "XOM", MarketCap: 1e11, Category: "energy", ListingDate: listed, CountryID: "USA", Exchange: "NYS"},
		},
	}
}

func newStore(t *testing.T) *s1_universe.StateStore {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return s1_universe.NewStateStore(redis.NewFromClient(rdb), "jobtest")
}

func newJob(t *testing.T, feed s1_universe.Feed, store *s1_universe.StateStore, state *s1_universe.State) *UniverseJob {
	t.Helper()
	sel, err := s1_universe.NewSelector(s1_universe.DefaultConfig(), state, nil)
	require.NoError(t, err)
	return NewUniverseJob(s1_universe.NewPipeline(sel, nil, nil), feed, store, "0 30 16 * * 1-5", time.UTC, nil)
}

func TestUniverseJob_Metadata(t *testing.T) {
	job := newJob(t, testFeed(), nil, nil)

	assert.Equal(t, "universe_selection", job.Name())
	assert.Equal(t, "0 30 16 * * 1-5", job.Schedule())
	assert.Equal(t, 0, job.MaxRetries())
	assert.Nil(t, job.Current())
	assert.Nil(t, job.LastResult())
}

func TestUniverseJob_PublishesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	job := newJob(t, testFeed(), store, nil)

	march5 := time.Date(2024, 3, 5, 16, 30, 0, 0, time.UTC)
	res, err := job.RunAt(ctx, march5)
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeRecomputed, res.Outcome)

	current := job.Current()
	require.NotNil(t, current)
	assert.Equal(t, []string{"AAPL", "MSFT", "XOM"}, current.Symbols)

	// gated cycle keeps the published universe
	res, err = job.RunAt(ctx, march5.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeGated, res.Outcome)
	assert.Same(t, current, job.Current())
	assert.Equal(t, contracts.OutcomeGated, job.LastResult().Outcome)

	// restart: state and published universe come back from redis
	state, err := store.Load(ctx)
	require.NoError(t, err)
	restarted := newJob(t, testFeed(), store, state)
	require.NoError(t, restarted.Restore(ctx))
	require.NotNil(t, restarted.Current())
	assert.Equal(t, current.Symbols, restarted.Current().Symbols)

	res, err = restarted.RunAt(ctx, march5.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, contracts.OutcomeGated, res.Outcome)
}

func TestUniverseJob_FailureKeepsPublished(t *testing.T) {
	ctx := context.Background()
	feed := testFeed()
	job := newJob(t, feed, nil, nil)

	march5 := time.Date(2024, 3, 5, 16, 30, 0, 0, time.UTC)
	_, err := job.RunAt(ctx, march5)
	require.NoError(t, err)
	published := job.Current()

	feed.err = errors.New("db down")
	res, err := job.RunAt(ctx, march5.AddDate(0, 1, 0))
	require.Error(t, err)
	assert.Equal(t, contracts.OutcomeFailed, res.Outcome)
	assert.Same(t, published, job.Current())
}

func TestUniverseJob_RunUsesClock(t *testing.T) {
	job := newJob(t, testFeed(), nil, nil)
	fixed := time.Date(2024, 6, 3, 20, 30, 0, 0, time.UTC)
	job.now = func() time.Time { return fixed }

	require.NoError(t, job.Run(context.Background()))
	require.NotNil(t, job.LastResult())
	assert.True(t, job.LastResult().Date.Equal(fixed))
}
