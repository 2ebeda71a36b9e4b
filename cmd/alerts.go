package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aguerin/carnet/core/catalog"
	"github.com/aguerin/carnet/core/engine"
	"github.com/aguerin/carnet/core/fleet"
	"github.com/aguerin/carnet/core/thresholds"
	"github.com/aguerin/carnet/pkg/export"
)

var (
	alertsSnapshot string
	alertsToday    string
	alertsFormat   string
	alertsAll      bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Compute maintenance alerts from a fleet snapshot file",
	RunE:  runAlerts,
}

func init() {
	alertsCmd.Flags().StringVarP(&alertsSnapshot, "snapshot", "s", "fleet.yaml", "fleet snapshot file (json or yaml)")
	alertsCmd.Flags().StringVar(&alertsToday, "today", "", "reference date as YYYY-MM-DD (defaults to the current day)")
	alertsCmd.Flags().StringVarP(&alertsFormat, "format", "f", "json", "output format: json or csv")
	alertsCmd.Flags().BoolVar(&alertsAll, "all", false, "bypass the display thresholds")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, args []string) error {
	snap, err := fleet.LoadSnapshot(alertsSnapshot)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	tpls := catalog.Merge(catalog.Default(), snap.Templates)

	today := time.Now().UTC()
	if alertsToday != "" {
		today, err = time.Parse("2006-01-02", alertsToday)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
	}

	list := engine.ComputeAlerts(snap.Vehicles, snap.History, tpls, snap.Profiles, today)
	if !alertsAll {
		var th thresholds.Config
		th.SetDefaults()
		list = th.Filter(list)
	}

	switch alertsFormat {
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), list)
	case "csv":
		return export.WriteCSV(cmd.OutOrStdout(), list)
	default:
		return fmt.Errorf("unknown format %s", alertsFormat)
	}
}
