package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/pkg/database"
)

// selectCmd runs one cycle against the database
var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "유니버스 1회 선정",
	Long: `DB 데이터로 유니버스 선정 사이클을 1회 실행합니다.

Redis가 활성화되어 있으면 저장된 상태(유동성 캐시, 사이클 마커)를
불러오고, 실행 후 다시 저장합니다 (--no-save 제외).
--reset 은 저장된 상태를 지우고 같은 기간 안에서도 다시 계산합니다.

Example:
  go run ./cmd/universe select
  go run ./cmd/universe select --date 2024-03-05 --excluded
  go run ./cmd/universe select --reset`,
	RunE: runSelect,
}

var (
	selectDate     string
	selectNoSave   bool
	selectExcluded bool
	selectReset    bool
)

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().StringVar(&selectDate, "date", "", "사이클 날짜 YYYY-MM-DD (기본: 오늘)")
	selectCmd.Flags().BoolVar(&selectNoSave, "no-save", false, "상태 저장 안 함")
	selectCmd.Flags().BoolVar(&selectExcluded, "excluded", false, "제외 사유 출력")
	selectCmd.Flags().BoolVar(&selectReset, "reset", false, "저장된 상태 삭제 후 재계산")
}

func runSelect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := bootstrap()
	if err != nil {
		return err
	}

	now, err := parseDate(selectDate, a.loc)
	if err != nil {
		return err
	}

	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	store, closeStore, err := a.openStateStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if selectReset && store != nil {
		if err := store.Reset(ctx); err != nil {
			return err
		}
		PrintWarning("Stored selector state cleared")
	}

	selector, err := a.newSelector(ctx, store)
	if err != nil {
		return err
	}

	PrintHeader("Universe Selection", [][2]string{
		{"Strategy", a.strategy.Meta.StrategyID},
		{"Date", now.Format("2006-01-02 15:04 MST")},
		{"Period", a.strategy.Universe.Period},
	})

	pipeline := s1_universe.NewPipeline(selector, nil, a.log)
	result, runErr := pipeline.Run(ctx, now, s1_universe.NewRepository(db.Pool))

	PrintCycleResult(result, selectExcluded)
	fmt.Println()

	if store != nil && !selectNoSave {
		if err := store.Save(ctx, selector.State()); err != nil {
			return err
		}
		if u := result.Universe(); u != nil {
			if err := store.SaveUniverse(ctx, u); err != nil {
				return err
			}
		}
		PrintInfo("State saved")
	}

	if runErr != nil {
		PrintError(runErr.Error())
		return runErr
	}
	PrintSuccess(fmt.Sprintf("Cycle finished: %s", result.Outcome))
	return nil
}
