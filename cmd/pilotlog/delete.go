package main

import (
	"errors"
	"fmt"

	"infinite-experiment/pilotlog/internal/db/repositories"
	"infinite-experiment/pilotlog/internal/logging"

	"github.com/spf13/cobra"
)

func newDeleteAircraftCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-aircraft <guid>",
		Short: "Delete an aircraft and all flights that reference it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			guid := args[0]

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteAircraft(ctx, guid); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return withCode(exitFailure, fmt.Errorf("aircraft %s not found", guid))
				}
				return err
			}

			logging.Info("Aircraft deleted", "guid", guid)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted aircraft %s\n", guid)
			return nil
		},
	}
}
