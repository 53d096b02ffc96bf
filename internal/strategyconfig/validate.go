package strategyconfig

import (
	"fmt"
	"math"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/aegis-universe/internal/s1_universe"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// cronParser accepts the 6-field (seconds) format the scheduler runs with
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Schedule ===
	if cfg.Schedule.Cron == "" {
		return ValidationError{"schedule.cron", "required"}
	}
	if _, err := cronParser.Parse(cfg.Schedule.Cron); err != nil {
		return ValidationError{"schedule.cron", err.Error()}
	}

	// === Coarse ===
	c := cfg.Universe.Coarse
	if c.NCoarse < 1 {
		return ValidationError{"universe.coarse.n_coarse", "must be >= 1"}
	}
	if c.MinVolume < 0 {
		return ValidationError{"universe.coarse.min_volume", "must be >= 0"}
	}
	if c.MinPrice < 0 || math.IsNaN(c.MinPrice) {
		return ValidationError{"universe.coarse.min_price", "must be >= 0"}
	}
	if c.MaxPrice != nil {
		if math.IsInf(*c.MaxPrice, 0) || math.IsNaN(*c.MaxPrice) {
			return ValidationError{"universe.coarse.max_price", "must be finite (omit for no upper bound)"}
		}
		if *c.MaxPrice <= c.MinPrice {
			return ValidationError{"universe.coarse.max_price", fmt.Sprintf("must be > min_price=%v", c.MinPrice)}
		}
	}

	// === Fine ===
	f := cfg.Universe.Fine
	if f.NFine < 1 {
		return ValidationError{"universe.fine.n_fine", "must be >= 1"}
	}
	if f.MinAgeDays < 0 {
		return ValidationError{"universe.fine.min_age_days", "must be >= 0"}
	}
	if f.RecentDays != s1_universe.NoRecentLimit && f.RecentDays <= 0 {
		return ValidationError{"universe.fine.recent_days", fmt.Sprintf("must be %d (disabled) or > 0", s1_universe.NoRecentLimit)}
	}
	if f.MinMarketCap < 0 {
		return ValidationError{"universe.fine.min_market_cap", "must be >= 0"}
	}
	if f.RestrictCountry && f.CountryID == "" {
		return ValidationError{"universe.fine.country_id", "required when restrict_country is true"}
	}

	// selector 자체 제약과 어긋나지 않는지 최종 확인
	if err := cfg.SelectorConfig().Validate(); err != nil {
		return ValidationError{"universe", err.Error()}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning
	u := cfg.Universe

	// 알 수 없는 주기는 월 단위로 동작
	if !s1_universe.Period(u.Period).Valid() {
		warnings = append(warnings, Warning{
			Code:    "UNKNOWN_PERIOD",
			Message: fmt.Sprintf("period=%q: Day/Month 외 값은 Month로 동작", u.Period),
		})
	}

	// 2차 목표가 1차 상한보다 크면 항상 1차 결과 전체가 후보
	if u.Fine.NFine > u.Coarse.NCoarse {
		warnings = append(warnings, Warning{
			Code:    "FINE_EXCEEDS_COARSE",
			Message: fmt.Sprintf("n_fine=%d > n_coarse=%d: 2차 유니버스가 목표보다 작음", u.Fine.NFine, u.Coarse.NCoarse),
		})
	}

	// recent_days 사용 시 min_age_days 무시 (기본값에서 바꾼 경우만 경고)
	if u.Fine.RecentDays != s1_universe.NoRecentLimit && u.Fine.MinAgeDays != s1_universe.DefaultConfig().MinAgeDays {
		warnings = append(warnings, Warning{
			Code:    "AGE_POLICY_OVERRIDE",
			Message: fmt.Sprintf("recent_days=%d 설정으로 min_age_days=%d 무시됨", u.Fine.RecentDays, u.Fine.MinAgeDays),
		})
	}

	if !u.Fine.RestrictCountry && len(u.Fine.Markets) > 0 {
		warnings = append(warnings, Warning{
			Code:    "MARKETS_IGNORED",
			Message: "restrict_country=false: markets 목록 미적용",
		})
	}

	if u.Fine.RestrictCountry && len(u.Fine.Markets) == 0 {
		warnings = append(warnings, Warning{
			Code:    "NO_MARKETS",
			Message: "restrict_country=true, markets 비어 있음: 모든 종목 제외",
		})
	}

	return warnings
}
