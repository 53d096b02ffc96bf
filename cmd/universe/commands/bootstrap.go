package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/internal/strategyconfig"
	"github.com/wonny/aegis-universe/pkg/config"
	"github.com/wonny/aegis-universe/pkg/logger"
	"github.com/wonny/aegis-universe/pkg/redis"
)

// app bundles what every command needs
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	strategy     *strategyconfig.Config
	strategyYAML []byte
	loc          *time.Location
}

// bootstrap loads env config, logger and the strategy file
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	path := cfg.Universe.StrategyPath
	if strategyFile != "" {
		path = strategyFile
	}

	strategy, data, err := strategyconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}
	for _, w := range strategyconfig.Warn(strategy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}

	fallback, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	loc, err := strategy.Location(fallback)
	if err != nil {
		return nil, fmt.Errorf("load strategy timezone: %w", err)
	}

	if err := logStrategy(log, strategy, data, path, loc); err != nil {
		return nil, err
	}

	return &app{
		cfg:          cfg,
		log:          log,
		strategy:     strategy,
		strategyYAML: data,
		loc:          loc,
	}, nil
}

// logStrategy records which strategy version (and its hash) this process runs
func logStrategy(log *logger.Logger, strategy *strategyconfig.Config, data []byte, path string, loc *time.Location) error {
	snapshot, err := strategyconfig.NewSnapshot(strategy, data)
	if err != nil {
		return fmt.Errorf("snapshot strategy: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"strategy":    snapshot.StrategyID,
		"version":     snapshot.Version,
		"config_hash": snapshot.ConfigHash,
		"path":        path,
		"timezone":    loc.String(),
	}).Info("Strategy loaded")
	return nil
}

// openStateStore connects to Redis; nil store when Redis is disabled
func (a *app) openStateStore() (*s1_universe.StateStore, func(), error) {
	client, err := redis.New(a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if !client.Enabled() {
		a.log.Warnf("Redis disabled: selector state %q will not survive restarts", a.cfg.Universe.StateKey)
		return nil, func() {}, nil
	}
	return s1_universe.NewStateStore(client, a.cfg.Universe.StateKey), func() { _ = client.Close() }, nil
}

// newSelector builds a selector over state loaded from store (fresh when store is nil)
func (a *app) newSelector(ctx context.Context, store *s1_universe.StateStore) (*s1_universe.Selector, error) {
	state := s1_universe.NewState()
	if store != nil {
		loaded, err := store.Load(ctx)
		if err != nil {
			return nil, err
		}
		state = loaded
	}

	a.log.WithFields(map[string]interface{}{
		"cached": len(state.Liquidity),
		"marker": state.Marker.Period,
	}).Debug("Selector state loaded")

	return s1_universe.NewSelector(a.strategy.SelectorConfig(), state, a.log)
}

// parseDate parses YYYY-MM-DD in loc; empty means now
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Now().In(loc), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}
