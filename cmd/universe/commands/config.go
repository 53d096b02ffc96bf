package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-universe/internal/strategyconfig"
)

// configCmd inspects the strategy file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "전략 설정 검증/조회",
	Long: `전략 YAML을 검증하거나 적용될 설정을 출력합니다.

Subcommands:
  validate  - 필수 제약 검증 + 권장 위반 경고
  show      - 기본값이 채워진 최종 설정과 해시 출력

Example:
  go run ./cmd/universe config validate --strategy config/universe.yaml`,
}

var (
	configValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "전략 설정 검증",
		RunE:  validateConfig,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "최종 설정 출력",
		RunE:  showConfig,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		PrintError(err.Error())
		return err
	}

	warnings := strategyconfig.Warn(a.strategy)
	for _, w := range warnings {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}

	hash, err := strategyconfig.Hash(a.strategy)
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("%s v%s valid (%d warnings)", a.strategy.Meta.StrategyID, a.strategy.Meta.Version, len(warnings)))
	PrintKeyValue("Hash", hash, 8)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}

	snapshot, err := strategyconfig.NewSnapshot(a.strategy, a.strategyYAML)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(struct {
		Hash   string                 `json:"config_hash"`
		Config *strategyconfig.Config `json:"config"`
	}{snapshot.ConfigHash, a.strategy}, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}
