package s1_universe

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/aegis-universe/internal/contracts"
)

// fine filters coarse survivors, allocates per-category quotas and ranks
// the result by cached liquidity. It is the only place the cycle marker moves.
func (s *Selector) fine(now time.Time, records []contracts.FineRecord) (contracts.Selection, stageReport, error) {
	report := newStageReport(contracts.StageFine, len(records))

	survivors := make([]contracts.FineRecord, 0, len(records))
	for _, r := range records {
		if reason := s.checkFineExclusion(r, now); reason != "" {
			report.excluded[r.Symbol] = reason
			continue
		}
		survivors = append(survivors, r)
	}

	if len(survivors) == 0 {
		report.result.Success = true
		report.result.Unchanged = true
		report.outcome = contracts.OutcomeFineEmpty
		return contracts.UnchangedSelection(), report, nil
	}

	// 캐시 누락은 호출자 계약 위반: 마커 이동 전에 실패
	for _, r := range survivors {
		if _, ok := s.state.Liquidity[r.Symbol]; !ok {
			err := fmt.Errorf("%w: %s", ErrNotCached, r.Symbol)
			report.result.Error = err.Error()
			report.outcome = contracts.OutcomeFailed
			return contracts.Selection{}, report, err
		}
	}

	s.state.Marker = CycleMarker{Period: s.config.Period.Truncate(now)}

	picked := s.stratify(survivors)
	s.rankFine(picked)
	for i, r := range picked {
		if i >= s.config.NFine {
			report.excluded[r.Symbol] = fmt.Sprintf("최종 순위 밖 (%d위)", i+1)
		}
	}
	if len(picked) > s.config.NFine {
		picked = picked[:s.config.NFine]
	}

	symbols := make([]string, len(picked))
	for i, r := range picked {
		symbols[i] = r.Symbol
	}

	if s.config.Verbose {
		for _, sym := range symbols {
			s.logger.WithField("symbol", sym).Info("Adding")
		}
		s.logger.Infof("Universe members: %d", len(symbols))
	}

	report.result.OutputCount = len(symbols)
	report.result.Success = true
	report.outcome = contracts.OutcomeRecomputed
	return contracts.NewSelection(symbols), report, nil
}

// stratify groups survivors by category and keeps ceil(size × NFine/total)
// of each group, best first. The result is not globally ranked or truncated.
func (s *Selector) stratify(survivors []contracts.FineRecord) []contracts.FineRecord {
	sorted := make([]contracts.FineRecord, len(survivors))
	copy(sorted, survivors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Category < sorted[j].Category
	})

	fraction := float64(s.config.NFine) / float64(len(sorted))
	picked := make([]contracts.FineRecord, 0, len(sorted))

	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Category == sorted[start].Category {
			end++
		}

		group := sorted[start:end]
		s.rankFine(group)

		quota := int(math.Ceil(float64(len(group)) * fraction))
		if quota > len(group) {
			quota = len(group)
		}
		picked = append(picked, group[:quota]...)

		start = end
	}

	return picked
}

// rankFine stable-sorts records by cached liquidity in the configured direction
func (s *Selector) rankFine(records []contracts.FineRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return s.rankLess(s.state.Liquidity[records[i].Symbol], s.state.Liquidity[records[j].Symbol])
	})
}

// checkFineExclusion returns the exclusion reason, or "" if the record passes
func (s *Selector) checkFineExclusion(r contracts.FineRecord, now time.Time) string {
	// 1. 시가총액 미달
	if !(r.MarketCap > s.config.MinMarketCap) {
		return fmt.Sprintf("시가총액 미달 (%.0f)", r.MarketCap)
	}

	// 2. 상장일수 (한 가지 정책만 적용)
	age := r.AgeDays(now)
	if s.config.RecentDays != NoRecentLimit {
		if age >= s.config.RecentDays {
			return fmt.Sprintf("신규상장 아님 (%d일)", age)
		}
	} else if age <= s.config.MinAgeDays {
		return fmt.Sprintf("상장일수 미달 (%d일)", age)
	}

	// 3. 국가/거래소 제한
	if s.config.RestrictCountry {
		if r.CountryID != s.config.CountryID {
			return fmt.Sprintf("국가 제외 (%s)", r.CountryID)
		}
		if !s.config.allowsMarket(r.Exchange) {
			return fmt.Sprintf("거래소 제외 (%s)", r.Exchange)
		}
	}

	return ""
}
