package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/janelia-flyem/marktips/internal/db"
	"github.com/janelia-flyem/marktips/internal/report"
	"github.com/janelia-flyem/marktips/internal/version"
)

// runsRecord is the output of "marktips runs".
type runsRecord struct {
	Status        bool     `json:"status"`
	Message       string   `json:"message"`
	Version       string   `json:"version"`
	SchemaVersion uint     `json:"schema_version"`
	Runs          []db.Run `json:"runs"`
}

func newRunsCmd(out io.Writer) *cobra.Command {
	var ledgerPath, body string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs recorded in a ledger, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledgerPath == "" {
				return errors.New("--ledger is required")
			}
			ledger, err := db.NewDB(ledgerPath)
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer ledger.Close()

			schema, dirty, err := ledger.MigrateVersion(db.MigrationsFS())
			if err != nil {
				return fmt.Errorf("ledger schema: %w", err)
			}
			if dirty {
				return fmt.Errorf("ledger schema version %d is dirty", schema)
			}
			runs, err := ledger.ListRuns(cmd.Context(), body)
			if err != nil {
				return err
			}
			return report.Write(out, runsRecord{
				Status:        true,
				Message:       fmt.Sprintf("%d runs recorded", len(runs)),
				Version:       version.Version,
				SchemaVersion: schema,
				Runs:          runs,
			})
		},
	}
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "SQLite ledger file")
	cmd.Flags().StringVar(&body, "body", "", "only list runs on this body")
	return cmd
}
