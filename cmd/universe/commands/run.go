package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wonny/aegis-universe/internal/api"
	"github.com/wonny/aegis-universe/internal/api/handlers"
	"github.com/wonny/aegis-universe/internal/metrics"
	"github.com/wonny/aegis-universe/internal/s1_universe"
	"github.com/wonny/aegis-universe/internal/scheduler"
	"github.com/wonny/aegis-universe/internal/scheduler/jobs"
	"github.com/wonny/aegis-universe/pkg/database"
)

// runCmd starts the scheduler and the read-only API
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "스케줄러 + API 서버 시작",
	Long: `전략 설정의 schedule.cron 에 따라 유니버스 사이클을 실행하고,
마지막으로 게시된 유니버스를 HTTP로 제공합니다.

Endpoints:
  GET  /health                           - Health check
  GET  /metrics                          - Prometheus (METRICS_ENABLED)
  GET  /api/universe                     - 게시된 유니버스
  GET  /api/universe/cycle               - 마지막 사이클 결과
  GET  /api/universe/symbols/{symbol}    - 종목 편입 여부
  GET  /api/scheduler/jobs               - 작업 통계
  GET  /api/scheduler/jobs/{name}/history - 최근 실행 이력

스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  go run ./cmd/universe run
  go run ./cmd/universe run --port 8080 --now`,
	RunE: runDaemon,
}

var (
	runPort string
	runNow  bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runPort, "port", "", "API 서버 포트 (기본: PORT)")
	runCmd.Flags().BoolVar(&runNow, "now", false, "시작 직후 1회 실행")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	if runPort != "" {
		a.cfg.Port = runPort
	}
	log := a.log

	// 1. Data feed
	db, err := database.New(a.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database")

	// 2. Selector state
	store, closeStore, err := a.openStateStore()
	if err != nil {
		return err
	}
	defer closeStore()

	selector, err := a.newSelector(ctx, store)
	if err != nil {
		return err
	}

	// 3. Metrics
	var gatherer prometheus.Gatherer
	var recorder s1_universe.Recorder
	if a.cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewRecorder(reg)
		gatherer = reg
	}

	// 4. Universe job
	pipeline := s1_universe.NewPipeline(selector, recorder, log)
	job := jobs.NewUniverseJob(pipeline, s1_universe.NewRepository(db.Pool), store, a.strategy.Schedule.Cron, a.loc, log)
	if err := job.Restore(ctx); err != nil {
		log.WithError(err).Warn("Could not restore published universe")
	}

	sched := scheduler.New(log, scheduler.WithLocation(a.loc))
	if err := sched.AddJob(job); err != nil {
		return fmt.Errorf("add universe job: %w", err)
	}

	// 5. HTTP
	router := api.NewRouter(
		handlers.NewUniverseHandler(job, log),
		handlers.NewSchedulerHandler(sched, log),
		gatherer,
		log,
	)
	server := api.New(a.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Error("API server stopped")
		}
	}()

	sched.Start()
	if runNow {
		if _, err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next := "-"
		if t, err := sched.NextRun(jobName); err == nil {
			next = t.In(a.loc).Format("2006-01-02 15:04:05 MST")
		}
		fmt.Printf("  - %s (next: %s)\n", jobName, next)
	}
	fmt.Println()
	PrintSuccess(fmt.Sprintf("Running on http://localhost:%s (Ctrl+C to stop)", a.cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	PrintSuccess("Stopped")
	return nil
}
