package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"seguimiento/internal/ingest"
	"seguimiento/internal/store"
)

var ingestReplace bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <report.json> [more.json ...]",
	Short: "Validate and ingest weekly report files into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			parsed, err := ingest.ParseReport(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			snap := parsed.Snapshot

			if st.HasSnapshot(snap.FechaReporte, snap.SemanaReporte) && !ingestReplace {
				return fmt.Errorf("%s: %w: %s semana %d (use --replace to overwrite)",
					path, store.ErrDuplicateSnapshot, snap.FechaReporte, snap.SemanaReporte)
			}
			if ingestReplace {
				st.ReplaceSnapshot(snap)
			} else if err := st.AppendSnapshot(snap); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if db != nil {
				if err := store.SaveSnapshot(db, snap); err != nil {
					return fmt.Errorf("persisting %s: %w", path, err)
				}
			}

			if parsed.SinClave > 0 {
				log.Warn().Str("path", path).Int("sinClave", parsed.SinClave).
					Msg("Registros without Correlativo or Id dropped")
			}
			fmt.Printf("Ingested %s: %s semana %d, %d registros\n",
				path, snap.FechaReporte, snap.SemanaReporte, len(snap.Registros))
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "overwrite an existing snapshot with the same date and week")
	rootCmd.AddCommand(ingestCmd)
}
