package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/amirphl/stock-ledger/internal/config"
	"github.com/amirphl/stock-ledger/internal/db"
	"github.com/amirphl/stock-ledger/internal/db/conf"
	"github.com/amirphl/stock-ledger/internal/ledger"
	"github.com/amirphl/stock-ledger/internal/notifier"
	"github.com/amirphl/stock-ledger/internal/period"
	"github.com/amirphl/stock-ledger/internal/report"
	"github.com/amirphl/stock-ledger/internal/scenario"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	scenarioPath string
	reportWindow string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stock-ledger",
		Short: "Replay inventory scenarios against an in-memory stock ledger",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Path to YAML scenario file (overrides config)")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a scenario, journal every event, and print the resulting statistics",
		RunE:  runReplay,
	}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Replay a scenario and print stock and sales summaries for a report window",
		RunE:  runReport,
	}
	reportCmd.Flags().StringVar(&reportWindow, "window", "", "Report window (overrides config), e.g. 24h or 7d")

	rootCmd.AddCommand(replayCmd, reportCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadAll() (config.Config, *scenario.Scenario, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	path := cfg.ScenarioFile
	if scenarioPath != "" {
		path = scenarioPath
	}
	if path == "" {
		return config.Config{}, nil, fmt.Errorf("no scenario file given (use --scenario or scenario_file in the config)")
	}

	s, err := scenario.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, s, nil
}

// openStorage returns Postgres-backed storage when a DSN is configured, and
// in-memory storage otherwise.
func openStorage(cfg config.Config) (db.Storage, error) {
	if cfg.DBConnStr == "" {
		return db.NewMemory(), nil
	}

	sqlDB, err := sql.Open("postgres", cfg.DBConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdle)
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return db.New(conf.Config{DB: sqlDB, ConnStr: cfg.DBConnStr})
}

func buildNotifier(cfg config.Config) notifier.Notifier {
	if cfg.TelegramToken == "" {
		return notifier.Nop{}
	}
	return notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID,
		cfg.NotificationRetries, cfg.NotificationDelay.Std())
}

func replayScenario(cfg config.Config, s *scenario.Scenario, storage db.Storage) (*scenario.Runner, scenario.Result, error) {
	runner := scenario.NewRunner(storage,
		scenario.WithNotifier(buildNotifier(cfg), cfg.LowStockThreshold))
	res, err := runner.Run(context.Background(), s)
	return runner, res, err
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, s, err := loadAll()
	if err != nil {
		return err
	}

	storage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	if sqlDB := storage.GetDB(); sqlDB != nil {
		defer sqlDB.Close()
	}

	runner, res, err := replayScenario(cfg, s, storage)
	if err != nil {
		return err
	}
	store := runner.Store()

	fmt.Printf("Replayed %q: %d applied, %d rejected\n\n", s.Name, res.Applied, res.Rejected)
	fmt.Print(report.Statistics(store.Statistics(), store.Total()))

	snap := snapshotOf(store)
	id, err := storage.SaveSnapshot(context.Background(), snap)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	fmt.Printf("\nSaved snapshot %d (%d items, total %.2f)\n", id, len(snap.Lines), snap.Total)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, s, err := loadAll()
	if err != nil {
		return err
	}
	window := cfg.ReportWindow
	if reportWindow != "" {
		window = reportWindow
	}

	// Reports replay into throwaway in-memory storage; nothing persists.
	runner, _, err := replayScenario(cfg, s, db.NewMemory())
	if err != nil {
		return err
	}
	store := runner.Store()

	fmt.Print(report.PeriodSummary("Stock, all history", store.StockStatisticsOverPeriod(time.Time{}, time.Time{})))
	fmt.Println()
	fmt.Print(report.PeriodSummary("Sales, all history", store.SalesStatisticsOverPeriod(time.Time{}, time.Time{})))

	begin, end, err := period.Bounds(time.Now().UTC(), window)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(report.PeriodSummary(fmt.Sprintf("Stock, last %s", window), store.StockStatisticsOverPeriod(begin, end)))
	fmt.Println()
	fmt.Print(report.PeriodSummary(fmt.Sprintf("Sales, last %s", window), store.SalesStatisticsOverPeriod(begin, end)))
	return nil
}

func snapshotOf(store *ledger.Store) db.Snapshot {
	snap := db.Snapshot{
		TakenAt: time.Now().UTC(),
		Total:   store.Total(),
	}
	for _, st := range store.Statistics() {
		snap.Lines = append(snap.Lines, db.SnapshotLine{
			Item:  st.Item.Name,
			Price: st.Item.Price,
			Count: st.Count,
			Total: st.Total,
		})
	}
	return snap
}
