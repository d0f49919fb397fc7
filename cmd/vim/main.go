package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Jose-Ibz/VIM/internal/cache"
	"github.com/Jose-Ibz/VIM/internal/config"
	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/engine"
	"github.com/Jose-Ibz/VIM/internal/export"
	"github.com/Jose-Ibz/VIM/internal/service"
	"github.com/Jose-Ibz/VIM/internal/snapshot"
	"github.com/Jose-Ibz/VIM/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "vim",
		Usage: "Compute replenishment order suggestions from an inventory export",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Process one inventory CSV and write every report artifact",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "Path to the semicolon-delimited inventory export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out-dir",
						Usage:   "Directory the report artifacts are written to",
						EnvVars: []string{"APP_OUTPUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "policy",
						Usage:   "Reorder policy: coverage or reorder_point",
						EnvVars: []string{"APP_REORDER_POLICY"},
					},
					&cli.StringFlag{
						Name:    "rules",
						Usage:   "SS/EOQ rules file for the reorder_point policy",
						EnvVars: []string{"APP_RULES_FILE"},
					},
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Monthly snapshot: auto, on or off",
						Value: "auto",
					},
					&cli.StringFlag{
						Name:  "as-of",
						Usage: "Run date (YYYY-MM-DD), defaults to today",
					},
				},
				Action: runAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("run failed")
	}
}

func runAction(c *cli.Context) error {
	cfg := config.Load()

	outDir := c.String("out-dir")
	if outDir == "" {
		outDir = cfg.App.OutputDir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	policyName := c.String("policy")
	if policyName == "" {
		policyName = cfg.App.ReorderPolicy
	}
	rulesFile := c.String("rules")
	if rulesFile == "" {
		rulesFile = cfg.App.RulesFile
	}

	policy, err := engine.PolicyFromConfig(cfg.Policy)
	if err != nil {
		return fmt.Errorf("invalid policy configuration: %w", err)
	}

	var reorder engine.ReorderPolicy
	switch policyName {
	case "", "coverage":
		reorder = engine.NewCoveragePolicy(policy)
	case "reorder_point":
		if rulesFile == "" {
			return fmt.Errorf("reorder_point policy requires a rules file")
		}
		reorder, err = engine.LoadReorderPointPolicy(rulesFile)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown reorder policy %q", policyName)
	}

	opts := service.RunOptions{AsOf: time.Now()}
	if raw := c.String("as-of"); raw != "" {
		asOf, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return fmt.Errorf("invalid as-of date: %w", err)
		}
		opts.AsOf = asOf
	}
	switch c.String("snapshot") {
	case "auto":
	case "on":
		force := true
		opts.Snapshot = &force
	case "off":
		force := false
		opts.Snapshot = &force
	default:
		return fmt.Errorf("snapshot must be auto, on or off")
	}

	input, err := os.Open(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer input.Close()

	snapshots := snapshot.NewStore(cfg.Snapshot.Dir, nil)
	runService := service.NewRunService(
		engine.New(policy, reorder),
		cache.NewMemoryRunStore(time.Hour),
		snapshots,
	)

	result, err := runService.Process(c.Context, input, opts)
	if err != nil {
		return err
	}

	if err := writeArtifacts(outDir, result); err != nil {
		return err
	}

	logger.Log.Info().
		Str("out_dir", outDir).
		Int("items", result.Summary.ItemCount).
		Int("normal", result.Summary.NormalCount).
		Int("campaign", result.Summary.CampaignCount).
		Int("exception", result.Summary.ExceptionCount).
		Float64("rotation_index", result.Summary.KPI.RotationIndex).
		Msg("reports written")

	return nil
}

// writeArtifacts writes the KPI workbook and import file always, and each
// order table when it has rows.
func writeArtifacts(outDir string, result *domain.RunResult) error {
	reports := result.Reports

	if len(reports.Normal) > 0 {
		if err := writeFile(outDir, "normal.xlsx", func(f *os.File) error {
			return export.WriteOrderXLSX(f, "Orders", reports.Normal)
		}); err != nil {
			return err
		}
	}
	if len(reports.Campaign) > 0 {
		if err := writeFile(outDir, "campaign.xlsx", func(f *os.File) error {
			return export.WriteOrderXLSX(f, "Campaign", reports.Campaign)
		}); err != nil {
			return err
		}
	}
	if len(reports.Exception) > 0 {
		if err := writeFile(outDir, "exception.xlsx", func(f *os.File) error {
			return export.WriteOrderXLSX(f, "Expensive", reports.Exception)
		}); err != nil {
			return err
		}
	}

	if err := writeFile(outDir, "kpi.xlsx", func(f *os.File) error {
		return export.WriteKPIXLSX(f, reports.KPI, reports.Health, reports.Anomalies)
	}); err != nil {
		return err
	}

	return writeFile(outDir, "reorder_import.csv", func(f *os.File) error {
		return export.WriteImportCSV(f, reports.ImportLines)
	})
}

func writeFile(dir, name string, write func(*os.File) error) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
