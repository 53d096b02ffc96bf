package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis-universe/internal/strategyconfig"
	"github.com/wonny/aegis-universe/pkg/logger"
)

func TestParseDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d, err := parseDate("2024-03-05", ny)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, ny), d)

	_, err = parseDate("03/05/2024", ny)
	assert.Error(t, err)

	now, err := parseDate("", ny)
	require.NoError(t, err)
	assert.Equal(t, ny, now.Location())
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "select", "replay", "config"} {
		assert.True(t, names[want], want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("strategy"))
}

func TestLogStrategy_IncludesHash(t *testing.T) {
	data := []byte(`
meta:
  strategy_id: test_universe
  version: "2.1.0"
`)
	strategy, err := strategyconfig.Parse(data)
	require.NoError(t, err)
	hash, err := strategyconfig.Hash(strategy)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, logStrategy(logger.NewWithWriter(&buf, "info"), strategy, data, "test.yaml", time.UTC))

	out := buf.String()
	assert.Contains(t, out, `"config_hash":"`+hash+`"`)
	assert.Contains(t, out, `"strategy":"test_universe"`)
	assert.Contains(t, out, `"version":"2.1.0"`)
	assert.Contains(t, out, "Strategy loaded")
}
