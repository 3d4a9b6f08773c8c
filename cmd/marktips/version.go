package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/janelia-flyem/marktips/internal/report"
	"github.com/janelia-flyem/marktips/internal/version"
)

type versionRecord struct {
	Status    bool   `json:"status"`
	Message   string `json:"message"`
	Version   string `json:"version"`
	GitSHA    string `json:"git_sha"`
	BuildTime string `json:"build_time"`
}

func newVersionCmd(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return report.Write(out, versionRecord{
				Status:    true,
				Message:   version.AppName + " " + version.Version,
				Version:   version.Version,
				GitSHA:    version.GitSHA,
				BuildTime: version.BuildTime,
			})
		},
	}
}
