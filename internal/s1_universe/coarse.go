package s1_universe

import (
	"fmt"
	"sort"

	"github.com/wonny/aegis-universe/internal/contracts"
)

// coarse filters the candidate pool, ranks by liquidity, truncates to NCoarse
// and rebuilds the liquidity cache from the survivors.
func (s *Selector) coarse(pool []contracts.CandidateRecord) (contracts.Selection, stageReport) {
	report := newStageReport(contracts.StageCoarse, len(pool))

	survivors := make([]contracts.CandidateRecord, 0, len(pool))
	for _, c := range pool {
		if reason := s.checkCoarseExclusion(c); reason != "" {
			report.excluded[c.Symbol] = reason
			continue
		}
		survivors = append(survivors, c)
	}

	// 동일 유동성은 입력 순서 유지
	sort.SliceStable(survivors, func(i, j int) bool {
		return s.rankLess(survivors[i].Liquidity(), survivors[j].Liquidity())
	})

	if len(survivors) > s.config.NCoarse {
		for i, c := range survivors[s.config.NCoarse:] {
			report.excluded[c.Symbol] = fmt.Sprintf("1차 순위 밖 (%d위)", s.config.NCoarse+i+1)
		}
		survivors = survivors[:s.config.NCoarse]
	}

	cache := make(LiquidityCache, len(survivors))
	symbols := make([]string, 0, len(survivors))
	for _, c := range survivors {
		// 중복 심볼은 상위 순위 레코드만 사용
		if _, dup := cache[c.Symbol]; dup {
			continue
		}
		cache[c.Symbol] = c.Liquidity()
		symbols = append(symbols, c.Symbol)
	}
	s.state.Liquidity = cache

	report.result.OutputCount = len(symbols)
	report.result.Success = true

	if len(symbols) == 0 {
		report.result.Unchanged = true
		report.outcome = contracts.OutcomeCoarseEmpty
		return contracts.UnchangedSelection(), report
	}

	s.logger.WithFields(map[string]interface{}{
		"input":  len(pool),
		"output": len(symbols),
	}).Debug("Coarse selection completed")

	return contracts.NewSelection(symbols), report
}

// checkCoarseExclusion returns the exclusion reason, or "" if the candidate passes
func (s *Selector) checkCoarseExclusion(c contracts.CandidateRecord) string {
	// 1. 펀더멘털 데이터 없음
	if !c.HasFundamentalData {
		return "펀더멘털 없음"
	}

	// 2. 거래량 미달
	if c.Volume <= s.config.MinVolume {
		return fmt.Sprintf("거래량 미달 (%d)", c.Volume)
	}

	// 3. 가격 범위 밖 (NaN 포함)
	if !(c.Price > s.config.MinPrice && c.Price < s.config.MaxPrice) {
		return fmt.Sprintf("가격 범위 밖 (%.2f)", c.Price)
	}

	return ""
}
