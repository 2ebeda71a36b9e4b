package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aguerin/carnet/config"
	"github.com/aguerin/carnet/core/fleet"
	"github.com/aguerin/carnet/infra/fleetstore"
	"github.com/aguerin/carnet/infra/logger"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the vehicles in the fleet store",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var snap fleet.Snapshot
	switch cfg.Fleet.Backend {
	case "sqlite":
		store, err := fleetstore.NewSQLiteStore(cfg.Fleet.Path, logger.NewWithLevel("fleet", cfg.Logging.Level))
		if err != nil {
			return fmt.Errorf("fleet store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error while closing store: %v\n", err)
			}
		}()
		snap, _ = store.Snapshot()
	default:
		if cfg.Fleet.Snapshot == "" {
			return fmt.Errorf("memory backend needs fleet.snapshot to list vehicles")
		}
		snap, err = fleet.LoadSnapshot(cfg.Fleet.Snapshot)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
	}

	for _, v := range snap.Vehicles {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d km\n", v.ID, v.Name, v.Odometer)
	}
	return nil
}
