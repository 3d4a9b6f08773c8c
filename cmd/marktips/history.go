package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/janelia-flyem/marktips/internal/config"
	"github.com/janelia-flyem/marktips/internal/dvid"
	"github.com/janelia-flyem/marktips/internal/history"
	"github.com/janelia-flyem/marktips/internal/httputil"
	"github.com/janelia-flyem/marktips/internal/report"
	"github.com/janelia-flyem/marktips/internal/version"
)

func newHistoryCmd(g *globalOptions, out io.Writer) *cobra.Command {
	cfg := &config.Run{}

	cmd := &cobra.Command{
		Use:   "history <server> <uuid> <body> [todo-instance]",
		Short: "Report earlier marktips runs on a body",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Server, cfg.UUID, cfg.Body = args[0], args[1], args[2]
			if len(args) == 4 {
				cfg.TodoInstance = args[3]
			}
			if err := prepare(cfg, g.configPath); err != nil {
				return err
			}

			client := dvid.NewClient(httputil.NewTimeoutClient(cfg.Timeout), cfg.Server, cfg.UUID, cfg.User)
			runs, err := history.Find(cmd.Context(), client, cfg.TodoInstance, cfg.Body)
			if err != nil {
				return err
			}
			return report.Write(out, history.NewRecord(runs, version.Version))
		},
	}
	cmd.Flags().StringVar(&cfg.User, "user", "", "user name sent with DVID requests (default: current user)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 0, "HTTP timeout per DVID request (0 = none)")
	return cmd
}
