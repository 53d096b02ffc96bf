package strategyconfig

import (
	"math"
	"time"

	"github.com/wonny/aegis-universe/internal/s1_universe"
)

// Config는 유니버스 선정 전략의 전체 설정
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Schedule Schedule `yaml:"schedule" json:"schedule"`
	Universe Universe `yaml:"universe" json:"universe"`
}

// Meta 메타 정보
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"` // 비어 있으면 프로세스 설정 사용
}

// Schedule 사이클 실행 시각
type Schedule struct {
	Cron string `yaml:"cron" json:"cron"` // 초 단위 포함 6필드
}

// Universe S1: 유니버스 선정 파라미터
type Universe struct {
	Coarse  Coarse `yaml:"coarse" json:"coarse"`
	Fine    Fine   `yaml:"fine" json:"fine"`
	Period  string `yaml:"period" json:"period"` // "Day" | "Month"
	FromTop bool   `yaml:"from_top" json:"from_top"`
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// Coarse 1차 필터 (유동성)
type Coarse struct {
	NCoarse   int      `yaml:"n_coarse" json:"n_coarse"`
	MinVolume int64    `yaml:"min_volume" json:"min_volume"`
	MinPrice  float64  `yaml:"min_price" json:"min_price"`
	MaxPrice  *float64 `yaml:"max_price,omitempty" json:"max_price,omitempty"` // nil: 상한 없음
}

// Fine 2차 필터 (펀더멘털 + 업종 층화)
type Fine struct {
	NFine           int      `yaml:"n_fine" json:"n_fine"`
	MinAgeDays      int      `yaml:"min_age_days" json:"min_age_days"`
	RecentDays      int      `yaml:"recent_days" json:"recent_days"` // -1: 미사용
	MinMarketCap    float64  `yaml:"min_market_cap" json:"min_market_cap"`
	RestrictCountry bool     `yaml:"restrict_country" json:"restrict_country"`
	CountryID       string   `yaml:"country_id" json:"country_id"`
	Markets         []string `yaml:"markets" json:"markets"`
}

// Default returns a config populated with the selector defaults.
// Parse decodes on top of it, so omitted keys keep these values.
func Default() Config {
	d := s1_universe.DefaultConfig()
	return Config{
		Meta: Meta{
			StrategyID: "universe_default",
			Version:    "1.0.0",
		},
		Schedule: Schedule{
			Cron: "0 30 16 * * 1-5", // 평일 16:30 (장 마감 후)
		},
		Universe: Universe{
			Coarse: Coarse{
				NCoarse:   d.NCoarse,
				MinVolume: d.MinVolume,
				MinPrice:  d.MinPrice,
			},
			Fine: Fine{
				NFine:           d.NFine,
				MinAgeDays:      d.MinAgeDays,
				RecentDays:      d.RecentDays,
				MinMarketCap:    d.MinMarketCap,
				RestrictCountry: d.RestrictCountry,
				CountryID:       d.CountryID,
				Markets:         append([]string(nil), d.Markets...),
			},
			Period:  string(d.Period),
			FromTop: d.FromTop,
			Verbose: d.Verbose,
		},
	}
}

// SelectorConfig converts the YAML universe section into selector parameters
// ⭐ SSOT: YAML → s1_universe.Config 변환은 여기서만
func (c *Config) SelectorConfig() s1_universe.Config {
	u := c.Universe

	maxPrice := math.Inf(1)
	if u.Coarse.MaxPrice != nil {
		maxPrice = *u.Coarse.MaxPrice
	}

	return s1_universe.Config{
		NCoarse:         u.Coarse.NCoarse,
		MinVolume:       u.Coarse.MinVolume,
		MinPrice:        u.Coarse.MinPrice,
		MaxPrice:        maxPrice,
		NFine:           u.Fine.NFine,
		MinAgeDays:      u.Fine.MinAgeDays,
		RecentDays:      u.Fine.RecentDays,
		MinMarketCap:    u.Fine.MinMarketCap,
		RestrictCountry: u.Fine.RestrictCountry,
		CountryID:       u.Fine.CountryID,
		Markets:         append([]string(nil), u.Fine.Markets...),
		Period:          s1_universe.Period(u.Period),
		FromTop:         u.FromTop,
		Verbose:         u.Verbose,
	}
}

// Location resolves meta.timezone, falling back when it is empty
func (c *Config) Location(fallback *time.Location) (*time.Location, error) {
	if c.Meta.Timezone == "" {
		return fallback, nil
	}
	return time.LoadLocation(c.Meta.Timezone)
}

// Snapshot 설정 스냅샷 (재현성용)
type Snapshot struct {
	ConfigHash string    `json:"config_hash"`
	ConfigYAML string    `json:"config_yaml"`
	StrategyID string    `json:"strategy_id"`
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}
