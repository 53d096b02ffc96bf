package contracts

import "time"

// UniverseSelector exposes the two selection stages.
// Host integrations adapt to this interface instead of subclassing a model type.
// ⭐ SSOT: S1 유니버스 선택 인터페이스
type UniverseSelector interface {
	// SelectCoarse filters the full candidate pool and caches the liquidity metric
	SelectCoarse(now time.Time, pool []CandidateRecord) (Selection, error)

	// SelectFine applies the stratified fine filter to coarse survivors
	SelectFine(now time.Time, records []FineRecord) (Selection, error)
}
