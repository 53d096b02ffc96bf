package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-universe/internal/replay"
	"github.com/wonny/aegis-universe/internal/s1_universe"
)

// replayCmd runs a fixture in simulated time
var replayCmd = &cobra.Command{
	Use:   "replay [fixture.yaml]",
	Short: "픽스처 재생 (시뮬레이션 시간)",
	Long: `날짜별 후보/펀더멘털 레코드가 담긴 YAML 픽스처를 순서대로 재생합니다.
DB와 Redis 없이 빈 상태에서 시작합니다.

expect_outcome / expect_symbols 가 지정된 사이클은 결과를 검증하며,
불일치가 하나라도 있으면 실패로 종료합니다.

Example:
  go run ./cmd/universe replay internal/replay/testdata/stratified_month.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}

	fixture, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}

	selector, err := a.newSelector(context.Background(), nil)
	if err != nil {
		return err
	}

	runner := replay.NewRunner(s1_universe.NewPipeline(selector, nil, a.log), a.log)
	report, err := runner.Run(context.Background(), fixture)
	if err != nil {
		return err
	}

	PrintHeader("Replay", [][2]string{
		{"Fixture", report.Name},
		{"Strategy", a.strategy.Meta.StrategyID},
		{"Cycles", fmt.Sprintf("%d", len(report.Cycles))},
	})

	widths := []int{10, 24, 6, 40}
	PrintTableHeader([]string{"DATE", "OUTCOME", "SIZE", "NOTE"}, widths)
	for _, c := range report.Cycles {
		note := c.Mismatch
		if c.Error != "" {
			note = c.Error
		}
		PrintTableRow([]string{
			c.Date.In(a.loc).Format("2006-01-02"),
			string(c.Outcome),
			fmt.Sprintf("%d", len(c.Universe)),
			note,
		}, widths)
	}
	fmt.Println()

	if len(report.Cycles) > 0 {
		last := report.Cycles[len(report.Cycles)-1]
		PrintKeyValue("Universe", strings.Join(last.Universe, ", "), 9)
		fmt.Println()
	}

	if report.Mismatches > 0 {
		PrintError(fmt.Sprintf("%d expectation(s) not met", report.Mismatches))
		return fmt.Errorf("replay %s: %d mismatches", report.Name, report.Mismatches)
	}
	PrintSuccess(fmt.Sprintf("Replay finished: %d recomputed", report.Recomputed))
	return nil
}
