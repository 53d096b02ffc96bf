package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "universe",
	Short: "Aegis Universe - 유동성/펀더멘털 기반 유니버스 선정",
	Long: `Aegis Universe CLI

주기(일/월)마다 투자 유니버스를 재계산합니다.
Cadence → Coarse(유동성) → Fine(업종 층화) 3단계 파이프라인.

Usage:
  go run ./cmd/universe [command]

Examples:
  go run ./cmd/universe run
  go run ./cmd/universe select --date 2024-03-05
  go run ./cmd/universe replay testdata/stratified_month.yaml
  go run ./cmd/universe config validate`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default: UNIVERSE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
