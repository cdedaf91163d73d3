package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seguimiento/internal/track"
)

var resumenCmd = &cobra.Command{
	Use:   "resumen",
	Short: "Print a console summary of the current review state",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, snapshots := st.Counts()
		if baseline == 0 {
			return fmt.Errorf("the store is empty; run fetch or ingest first")
		}

		records, _ := track.Correlate(st.Baseline(), st.Snapshots())
		current := track.DeduplicateByItem(records)
		kpis := track.ComputeKPIs(current, time.Now())

		fmt.Printf("Baseline: %d items, %d report snapshots\n\n", baseline, snapshots)
		fmt.Printf("Registros vigentes:   %d\n", kpis.Total)
		fmt.Printf("Incorporadas:         %d (%.1f%%)\n", kpis.Incorporadas, kpis.PorcentajeIncorporadas)
		fmt.Printf("En proceso:           %d\n", kpis.EnProceso)
		fmt.Printf("En trabajo:           %d\n", kpis.EnTrabajo)
		fmt.Printf("Atrasadas:            %d\n", kpis.Atrasos)
		fmt.Printf("Por vencer (7 días):  %d\n\n", kpis.PorVencer)

		dist := track.DistributionByState(current)
		fmt.Println("Por estado:")
		for _, estado := range track.EstadoOrder {
			if dist[estado] == 0 {
				continue
			}
			fmt.Printf("  %-22s %d\n", estado, dist[estado])
		}

		if len(cfg.Control) > 0 {
			fmt.Println("\nEntregas programadas por fecha de control:")
			for _, row := range track.ScheduleBuckets(current, cfg.Control) {
				fmt.Printf("  %-10s %3d\n", row.Label, row.Total)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resumenCmd)
}
