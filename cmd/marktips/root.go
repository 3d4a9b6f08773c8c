package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/janelia-flyem/marktips/internal/monitoring"
	"github.com/janelia-flyem/marktips/internal/pipeline"
	"github.com/janelia-flyem/marktips/internal/report"
	"github.com/janelia-flyem/marktips/internal/version"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	verbose    bool
	configPath string

	// flush syncs the zap logger installed for this invocation.
	flush func()
}

func newRootCmd(g *globalOptions, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "marktips",
		Short:         "Place to do items at the skeleton tips of a DVID body",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			g.flush = monitoring.UseZap(monitoring.NewZapLogger(errOut, g.verbose))
		},
	}
	root.SetOut(errOut)
	root.SetErr(errOut)

	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "JSON or YAML file with default settings")

	root.AddCommand(
		newPlaceCmd(g, out),
		newHistoryCmd(g, out),
		newRunsCmd(out),
		newVersionCmd(out),
	)
	return root
}

// execute runs the CLI and returns the process exit status. Any error is
// reported as a failure record on out.
func execute(args []string, out, errOut io.Writer) int {
	orig := monitoring.Logf
	defer monitoring.SetLogger(orig)

	g := &globalOptions{}
	root := newRootCmd(g, out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err != nil {
		monitoring.Logf("marktips: %v", err)
		_ = report.Write(out, report.NewFailure(errors.New(pipeline.Describe(err)), version.Version))
	}
	if g.flush != nil {
		g.flush()
	}
	if err != nil {
		return 1
	}
	return 0
}
