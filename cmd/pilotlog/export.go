package main

import (
	"fmt"

	"infinite-experiment/pilotlog/internal/metrics"
	"infinite-experiment/pilotlog/internal/models"
	"infinite-experiment/pilotlog/internal/services"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	aircraftMake string
	active       bool
	hpc          bool
	aircraft     string
}

func newExportCmd(a *app) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Render stored aircraft and flights as the logbook import CSV",
		Long: "Writes the CSV to the given path, relative to the working directory. " +
			"Without an argument a timestamped file is written under export.dir.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return runExport(cmd, a, name, opts)
		},
	}

	cmd.Flags().StringVar(&opts.aircraftMake, "make", "", "Only aircraft of this make")
	cmd.Flags().BoolVar(&opts.active, "active", false, "Only active aircraft")
	cmd.Flags().BoolVar(&opts.hpc, "hpc", false, "Only active high performance complex aircraft")
	cmd.Flags().StringVar(&opts.aircraft, "aircraft", "", "Only flights of this aircraft guid")

	return cmd
}

func runExport(cmd *cobra.Command, a *app, name string, opts exportOptions) error {
	ctx := cmd.Context()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := services.NewExportService(store, a.cfg.Export.Dir, metrics.Default())
	res, err := svc.ExportFile(ctx, name, services.ExportOptions{
		Aircraft: models.AircraftFilter{
			Make:                   opts.aircraftMake,
			ActiveOnly:             opts.active,
			HighPerformanceComplex: opts.hpc,
		},
		Flights: models.FlightFilter{AircraftGUID: opts.aircraft},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s (%d aircraft, %d flights)\n", res.Path, res.AircraftRows, res.FlightRows)
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	return nil
}
