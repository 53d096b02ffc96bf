package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 메트릭, 사이클 리포트에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   Cadence → Coarse → Fine

// Stage represents a selection pipeline stage
type Stage string

const (
	// StageCadence 재계산 주기 게이트
	// 책임: 같은 기간 내 재계산 방지
	StageCadence Stage = "S1_CADENCE"

	// StageCoarse 1차 필터
	// 책임: 펀더멘털 보유/거래량/가격 필터, 유동성 순위, 캐시 갱신
	StageCoarse Stage = "S1_COARSE"

	// StageFine 2차 필터 + 업종별 비례 배분
	// 책임: 시총/상장일수/국가·거래소 필터, 업종 쿼터, 최종 순위
	StageFine Stage = "S1_FINE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name
func (s Stage) ShortName() string {
	switch s {
	case StageCadence:
		return "GATE"
	case StageCoarse:
		return "COARSE"
	case StageFine:
		return "FINE"
	default:
		return "UNKNOWN"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageCadence,
		StageCoarse,
		StageFine,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// Outcome classifies how a cycle ended
type Outcome string

const (
	OutcomeRecomputed  Outcome = "recomputed"
	OutcomeGated       Outcome = "unchanged_cadence"
	OutcomeCoarseEmpty Outcome = "unchanged_coarse_empty"
	OutcomeFineEmpty   Outcome = "unchanged_fine_empty"
	OutcomeFailed      Outcome = "failed"
)

// AllOutcomes returns every cycle outcome
func AllOutcomes() []Outcome {
	return []Outcome{
		OutcomeRecomputed,
		OutcomeGated,
		OutcomeCoarseEmpty,
		OutcomeFineEmpty,
		OutcomeFailed,
	}
}

// Unchanged reports whether the cycle kept the prior universe
func (o Outcome) Unchanged() bool {
	return o == OutcomeGated || o == OutcomeCoarseEmpty || o == OutcomeFineEmpty
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage  `json:"stage"`
	Success     bool   `json:"success"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Unchanged   bool   `json:"unchanged"`
	Error       string `json:"error,omitempty"`
}
