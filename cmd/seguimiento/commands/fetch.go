package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the baseline and all reports from the configured remote source",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.RemoteConfigured() {
			return fmt.Errorf("no remote source configured (set BASELINE_URL)")
		}
		if err := refreshRemote(); err != nil {
			return err
		}
		baseline, snapshots := st.Counts()
		fmt.Printf("Fetched %d baseline items and %d report snapshots\n", baseline, snapshots)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
