package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/robfig/cron"

	"IndicatorInsight/src/config"
	"IndicatorInsight/src/datapush"
	"IndicatorInsight/src/datasource/file"
	"IndicatorInsight/src/datasource/worldbank"
	"IndicatorInsight/src/processor"
	"IndicatorInsight/src/report"
	"IndicatorInsight/src/storage"
)

func main() {
	jsonFolder := "./config"
	cfg, icfg, err := config.LoadConfig(jsonFolder, "config.json", "indicators.json")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	// Default mode: one batch run, exit with the run's outcome.
	if time.Duration(cfg.RefreshInterval) == 0 {
		if err := runAnalysis(cfg, icfg, logger, nil); err != nil {
			logger.Fatal("analysis run failed: " + err.Error())
			os.Exit(1)
		}
		return
	}

	// Refresh mode: re-run the whole analysis on a schedule, and re-process
	// the snapshot whenever it is replaced on disk. The monitor is created
	// here so each scheduled run can mark its own snapshot write and not
	// re-trigger itself.
	var monitor *file.SnapshotMonitor
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Error("cannot create snapshot dir: " + err.Error())
	} else if monitor, err = file.NewSnapshotMonitor(cfg.DataDir); err != nil {
		logger.Error("snapshot monitoring unavailable: " + err.Error())
		monitor = nil
	}

	c := cron.New()
	cronSpec := fmt.Sprintf("@every %s", time.Duration(cfg.RefreshInterval))
	err = c.AddFunc(cronSpec, func() {
		logger.Info(fmt.Sprintf("scheduled refresh (interval: %v)", time.Duration(cfg.RefreshInterval)))
		t1 := time.Now()
		if err := runAnalysis(cfg, icfg, logger, monitor); err != nil {
			logger.Error("scheduled run failed: " + err.Error())
		}
		logger.Info(fmt.Sprintf("refresh finished in %v", time.Since(t1)))
		logger.CheckRotate(cfg)
	})
	if err != nil {
		logger.Error("failed to schedule refresh: " + err.Error())
		return
	}
	c.Start()
	defer c.Stop()

	if monitor != nil {
		defer monitor.Close()
		go watchSnapshots(monitor, cfg, icfg, logger)
	}

	logger.Info(fmt.Sprintf("refresh mode started (interval: %v), Ctrl+C to exit", time.Duration(cfg.RefreshInterval)))
	select {}
}

// runAnalysis is one complete batch: fetch, snapshot, analyze, render. In
// refresh mode the monitor is told about the snapshot write so it does not
// fire on it.
func runAnalysis(cfg *config.Config, icfg *config.IndicatorConfig, logger *storage.Logger, monitor *file.SnapshotMonitor) error {
	client := worldbank.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.Timeout),
		cfg.API.PerPage,
		cfg.API.Retries,
	)

	codes := make([]string, 0, len(icfg.Order))
	for _, name := range icfg.Order {
		codes = append(codes, icfg.GetCode(name))
	}

	raw, err := client.FetchYear(cfg.API.Year, codes)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("downloaded %d raw rows for %d", raw.Nrow(), cfg.API.Year))

	snapshot := filepath.Join(cfg.DataDir, fmt.Sprintf("indicators_%d.xlsx", cfg.API.Year))
	if monitor != nil {
		monitor.IgnoreNext(snapshot)
	}
	if err := file.SaveSnapshot(raw, snapshot); err != nil {
		logger.Warning("failed to save snapshot: " + err.Error())
	}

	return analyze(raw, cfg, icfg, logger)
}

// analyze runs the normalize → dedup → aggregate → correlate → render chain
// over an already loaded raw table.
func analyze(raw dataframe.DataFrame, cfg *config.Config, icfg *config.IndicatorConfig, logger *storage.Logger) error {
	df, err := processor.Normalize(raw, icfg.Codes, icfg.Order)
	if err != nil {
		return err
	}
	df = processor.Dedup(df)
	logger.Info(fmt.Sprintf("%d country observations after normalization and dedup", df.Nrow()))

	overview, err := processor.Describe(df, icfg.Order)
	if err != nil {
		return err
	}
	regions, err := processor.SummaryByRegion(df, icfg.Order)
	if err != nil {
		return err
	}

	var rankings, byIncome []report.Ranking
	for _, indicator := range icfg.Order {
		regional, err := processor.MeanByRegion(df, indicator)
		if err != nil {
			return err
		}
		for _, gm := range regional {
			if gm.Count == 0 {
				logger.Warning(fmt.Sprintf("region %q has no %s values", gm.Group, indicator))
			}
		}
		rankings = append(rankings, report.Ranking{
			Indicator: indicator,
			Label:     icfg.GetLabel(indicator),
			GroupCol:  processor.ColRegion,
			Rows:      regional,
		})

		income, err := processor.MeanByGroup(df, processor.ColIncome, indicator)
		if err != nil {
			return err
		}
		byIncome = append(byIncome, report.Ranking{
			Indicator: indicator,
			Label:     icfg.GetLabel(indicator),
			GroupCol:  processor.ColIncome,
			Rows:      income,
		})
	}

	corr, err := processor.Correlate(df, icfg.Order)
	if err != nil {
		return err
	}

	rep := &report.Report{
		Year:       cfg.API.Year,
		Countries:  df.Nrow(),
		Indicators: icfg.Order,
		Labels:     icfg.Labels,
		Overview:   overview,
		Regions:    regions,
		Rankings:   rankings,
		ByIncome:   byIncome,
		Corr:       corr,
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	workbook := filepath.Join(cfg.OutputDir, fmt.Sprintf("analysis_%d.xlsx", cfg.API.Year))
	if err := rep.WriteWorkbook(workbook); err != nil {
		return err
	}
	charts, skipped, err := rep.WriteCharts(cfg.OutputDir)
	if err != nil {
		return err
	}
	for _, indicator := range skipped {
		logger.Warning(fmt.Sprintf("no drawable groups for %s, chart omitted", indicator))
	}
	logger.Info(fmt.Sprintf("wrote %s and %d charts", workbook, len(charts)))

	summary := rep.Summary()
	logger.Info(summary)

	if err := datapush.PushSummary(cfg.WebhookURL, datapush.Message{
		Title:       fmt.Sprintf("Indicator analysis %d", cfg.API.Year),
		Text:        summary,
		Year:        cfg.API.Year,
		Attachments: append([]string{workbook}, charts...),
	}); err != nil {
		logger.Error("summary delivery failed: " + err.Error())
	}

	return nil
}

// watchSnapshots re-processes a snapshot that was replaced on disk, e.g. by
// a manual correction, without re-downloading. Snapshots the run wrote
// itself are suppressed by the monitor.
func watchSnapshots(monitor *file.SnapshotMonitor, cfg *config.Config, icfg *config.IndicatorConfig, logger *storage.Logger) {
	codes := make([]string, 0, len(icfg.Order))
	for _, name := range icfg.Order {
		codes = append(codes, icfg.GetCode(name))
	}

	err := monitor.Watch(func(path string) {
		logger.Info("snapshot updated: " + path)
		raw, err := file.ReadSnapshot(path, codes)
		if err != nil {
			logger.Error("failed to reload snapshot: " + err.Error())
			return
		}
		if err := analyze(raw, cfg, icfg, logger); err != nil {
			logger.Error("snapshot re-analysis failed: " + err.Error())
		}
	})
	if err != nil {
		logger.Error("snapshot monitoring stopped: " + err.Error())
	}
}
