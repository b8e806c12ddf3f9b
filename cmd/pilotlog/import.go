package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"infinite-experiment/pilotlog/internal/common"
	"infinite-experiment/pilotlog/internal/metrics"
	"infinite-experiment/pilotlog/internal/models"
	"infinite-experiment/pilotlog/internal/services"

	"github.com/spf13/cobra"
)

type importOptions struct {
	batchSize int
	jsonOut   bool
	strict    bool
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <export.json>",
		Short: "Import a logbook export file into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, a, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Records per insert batch (default: import.batch_size)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the full report as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with code 3 when any record failed")

	return cmd
}

func runImport(cmd *cobra.Command, a *app, path string, opts importOptions) error {
	ctx := cmd.Context()

	batchSize := a.cfg.Import.BatchSize
	if opts.batchSize < 0 {
		return withCode(exitUsage, fmt.Errorf("--batch-size must be positive"))
	}
	if opts.batchSize > 0 {
		batchSize = opts.batchSize
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.NewImportService(store, batchSize, metrics.Default())
	report, err := svc.ImportFile(ctx, path)
	if err != nil {
		if errors.Is(err, common.ErrLoad) {
			return withCode(exitFailure, err)
		}
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(cmd.OutOrStdout(), report)
	}

	if opts.strict && report.Failed > 0 {
		return withCode(exitPartial, fmt.Errorf("%d of %d records failed", report.Failed, report.Attempted))
	}
	return nil
}

func printReport(w io.Writer, r *models.ImportReport) {
	fmt.Fprintf(w, "run %s: %s\n", r.RunID, r.Source)
	fmt.Fprintf(w, "attempted %d, succeeded %d, failed %d, skipped %d\n", r.Attempted, r.Succeeded, r.Failed, r.Skipped)
	fmt.Fprintf(w, "inserted %d, duplicates %d\n", r.Inserted, r.Duplicates)

	for _, kind := range models.AllKinds {
		c, ok := r.ByKind[kind]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-14s succeeded %d, failed %d, inserted %d\n", kind, c.Succeeded, c.Failed, c.Inserted)
	}

	for _, f := range r.Failures {
		fmt.Fprintf(w, "  failed #%d %s %s: %s\n", f.Position, f.Kind, f.GUID, f.Cause)
	}
}
