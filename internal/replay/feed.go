package replay

import (
	"context"
	"time"

	"github.com/wonny/aegis-universe/internal/contracts"
	"github.com/wonny/aegis-universe/internal/s1_universe"
)

// cycleFeed serves one fixture cycle
type cycleFeed struct {
	cycle Cycle
}

var _ s1_universe.Feed = (*cycleFeed)(nil)

func (f *cycleFeed) Candidates(ctx context.Context, date time.Time) ([]contracts.CandidateRecord, error) {
	return f.cycle.Candidates, nil
}

// FineRecords returns the fixture's fine records for the requested symbols,
// in fixture order
func (f *cycleFeed) FineRecords(ctx context.Context, date time.Time, symbols []string) ([]contracts.FineRecord, error) {
	want := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		want[s] = struct{}{}
	}

	out := make([]contracts.FineRecord, 0, len(symbols))
	for _, r := range f.cycle.Fine {
		if _, ok := want[r.Symbol]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
