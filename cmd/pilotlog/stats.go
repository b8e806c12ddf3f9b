package main

import (
	"fmt"

	"infinite-experiment/pilotlog/internal/models"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show stored record counts per kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.CountByKind(ctx)
			if err != nil {
				return err
			}

			var total int64
			out := cmd.OutOrStdout()
			for _, kind := range models.AllKinds {
				fmt.Fprintf(out, "%-14s %d\n", kind, counts[kind])
				total += counts[kind]
			}
			fmt.Fprintf(out, "%-14s %d\n", "total", total)
			return nil
		},
	}
}
