package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/janelia-flyem/marktips/internal/config"
	"github.com/janelia-flyem/marktips/internal/db"
	"github.com/janelia-flyem/marktips/internal/dvid"
	"github.com/janelia-flyem/marktips/internal/httputil"
	"github.com/janelia-flyem/marktips/internal/locator"
	"github.com/janelia-flyem/marktips/internal/monitoring"
	"github.com/janelia-flyem/marktips/internal/pipeline"
	"github.com/janelia-flyem/marktips/internal/report"
	"github.com/janelia-flyem/marktips/internal/skeleton"
)

func newPlaceCmd(g *globalOptions, out io.Writer) *cobra.Command {
	cfg := &config.Run{}

	cmd := &cobra.Command{
		Use:   "place <server> <uuid> <body> [todo-instance]",
		Short: "Find the tips of a body and place to do items at them",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Server, cfg.UUID, cfg.Body = args[0], args[1], args[2]
			if len(args) == 4 {
				cfg.TodoInstance = args[3]
			}
			cfg.Verbose = g.verbose
			if err := prepare(cfg, g.configPath); err != nil {
				return err
			}
			return runPlace(cmd.Context(), cfg, out)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.RoI, "roi", "", "only keep tips inside this RoI")
	f.StringVar(&cfg.ExcludedRoI, "excluded-roi", "", "drop tips inside this RoI")
	f.StringVar(&cfg.User, "user", "", "user name sent with DVID requests (default: current user)")
	f.StringVar(&cfg.Assignee, "assignee", "", "user the to do items are assigned to (default: --user)")
	f.StringVar(&cfg.SkeletonInstance, "skeleton-instance", "", "keyvalue instance holding SWC skeletons (default "+skeleton.DefaultInstance+")")
	f.BoolVar(&cfg.FindOnly, "find-only", false, "report tips without reading or writing to do items")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "compute placements but do not post them")
	f.BoolVar(&cfg.ShowProgress, "show-progress", false, "log progress messages to stderr")
	f.StringVar(&cfg.Ledger, "ledger", "", "SQLite file to record this run in")
	f.DurationVar(&cfg.Timeout, "timeout", 0, "HTTP timeout per DVID request (0 = none)")
	return cmd
}

// prepare merges the config file into cfg, fills defaults and validates.
func prepare(cfg *config.Run, configPath string) error {
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		file.Apply(cfg)
	}
	cfg.FillDefaults()
	cfg.Server = httputil.EnsureScheme(cfg.Server)
	return cfg.Validate()
}

func runPlace(ctx context.Context, cfg *config.Run, out io.Writer) error {
	client := dvid.NewClient(httputil.NewTimeoutClient(cfg.Timeout), cfg.Server, cfg.UUID, cfg.User)
	progress := monitoring.Progress(cfg.ShowProgress || cfg.Verbose)

	detector := skeleton.NewDetector(client, cfg.SkeletonInstance, progress)
	opts := []pipeline.Option{pipeline.WithProgress(progress)}
	if cfg.Ledger != "" {
		ledger, err := db.NewDB(cfg.Ledger)
		if err != nil {
			return fmt.Errorf("open ledger: %w", err)
		}
		defer ledger.Close()
		opts = append(opts, pipeline.WithLedger(ledger))
	}

	start := time.Now()
	res, err := pipeline.New(locator.New(detector, client), client, opts...).Run(ctx, cfg)
	if err != nil {
		return err
	}
	monitoring.Logf("body %s: %d to do items placed in %s", cfg.Body, res.NPlaced, time.Since(start).Round(time.Millisecond))
	return report.Write(out, res)
}
