package commands

import (
	"database/sql"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"seguimiento/internal/config"
	"seguimiento/internal/fetch"
	"seguimiento/internal/ingest"
	"seguimiento/internal/logging"
	"seguimiento/internal/mcp"
	"seguimiento/internal/store"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
	st      *store.Store
	db      *sql.DB
)

var rootCmd = &cobra.Command{
	Use:   "seguimiento",
	Short: "Seguimiento is an MCP server tracking review items across weekly report snapshots",
	Long: `An MCP Server that correlates an immutable baseline of review items with
weekly report snapshots and answers status, schedule and evolution queries
over the consolidated state.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		st = store.New()

		if cfg.DBPath != "" {
			db, err = store.InitDB(cfg.DBPath)
			if err != nil {
				log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("Failed to open database")
			}
			loadFromDB()
		}

		if baseline, snapshots := st.Counts(); baseline == 0 && cfg.DataPath != "" {
			loadFromDataPath()
			baseline, snapshots = st.Counts()
			log.Info().Int("baseline", baseline).Int("snapshots", snapshots).
				Str("dataPath", cfg.DataPath).Msg("Loaded local data")
		} else {
			log.Info().Int("baseline", baseline).Int("snapshots", snapshots).Msg("Store ready")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("Seguimiento starting")
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.AutoFetchSchedule != "" && cfg.RemoteConfigured() {
			if err := fetch.StartScheduler(cfg.AutoFetchSchedule, refreshRemote); err != nil {
				log.Fatal().Err(err).Str("schedule", cfg.AutoFetchSchedule).Msg("Invalid auto-fetch schedule")
			}
		}

		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(st, cfg, db)
		if err := server.Serve(); err != nil {
			log.Fatal().Err(err).Msg("Stdio loop failed")
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func loadFromDB() {
	baseline, err := store.LoadBaseline(db)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load baseline from database")
		return
	}
	st.SetBaseline(baseline)

	snapshots, err := store.LoadSnapshots(db)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load snapshots from database")
		return
	}
	for _, snap := range snapshots {
		st.ReplaceSnapshot(snap)
	}
}

// loadFromDataPath seeds the store from a local data directory holding
// baseline.json and a reports/ subdirectory with one JSON file per snapshot.
func loadFromDataPath() {
	baselinePath := filepath.Join(cfg.DataPath, "baseline.json")
	data, err := os.ReadFile(baselinePath)
	if err != nil {
		log.Warn().Err(err).Str("path", baselinePath).Msg("No local baseline file")
		return
	}
	baseline, err := ingest.ParseBaseline(data)
	if err != nil {
		log.Error().Err(err).Str("path", baselinePath).Msg("Local baseline rejected")
		return
	}
	st.SetBaseline(baseline)

	files, err := filepath.Glob(filepath.Join(cfg.DataPath, "reports", "*.json"))
	if err != nil {
		return
	}
	sort.Strings(files)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Warn().Err(err).Str("path", file).Msg("Unreadable report file")
			continue
		}
		parsed, err := ingest.ParseReport(data)
		if err != nil {
			log.Warn().Err(err).Str("path", file).Msg("Report rejected")
			continue
		}
		st.ReplaceSnapshot(parsed.Snapshot)
	}
}

// refreshRemote re-fetches everything from the configured remote and
// replaces both the in-memory state and, when persistence is on, the
// database contents.
func refreshRemote() error {
	result, err := fetch.Remote(fetch.Config{
		BaselineURL: cfg.BaselineURL,
		ReportsURL:  cfg.ReportsURL,
		Token:       cfg.GitHubToken,
	})
	if err != nil {
		return err
	}

	st.SetBaseline(result.Baseline)
	for _, snap := range result.Snapshots {
		st.ReplaceSnapshot(snap)
	}

	if db != nil {
		if err := store.SaveBaseline(db, result.Baseline); err != nil {
			return err
		}
		for _, snap := range result.Snapshots {
			if err := store.SaveSnapshot(db, snap); err != nil {
				return err
			}
		}
	}

	baseline, snapshots := st.Counts()
	log.Info().Int("baseline", baseline).Int("snapshots", snapshots).
		Strs("rejected", result.Rejected).Msg("Remote refresh done")
	return nil
}
