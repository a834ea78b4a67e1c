package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgorelik/blogmig/internal/config"
	"github.com/mgorelik/blogmig/internal/db"
	"github.com/mgorelik/blogmig/internal/legacy"
	"github.com/mgorelik/blogmig/internal/migrate"
	"github.com/mgorelik/blogmig/internal/sink"
	"github.com/mgorelik/blogmig/internal/textenc"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full migration",
	Long: `Reads every post from the legacy database in chronological order and
writes one markdown document per published post. A post that fails to
migrate is reported and the run continues with the next one.`,
	RunE: runMigration,
}

var (
	runDSN     string
	runDriver  string
	runOut     string
	runCharset string
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDSN, "dsn", "", "Database DSN (overrides BLOGMIG_DSN)")
	runCmd.Flags().StringVar(&runDriver, "driver", "", "Database driver, mysql or sqlite3 (overrides BLOGMIG_DRIVER)")
	runCmd.Flags().StringVar(&runOut, "out", "", "Output directory (overrides BLOGMIG_OUTPUT_DIR)")
	runCmd.Flags().StringVar(&runCharset, "charset", "", "Assumed charset of legacy text fields (overrides BLOGMIG_SOURCE_CHARSET)")
}

func runMigration(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if runDSN != "" {
		cfg.DSN = runDSN
	}
	if runDriver != "" {
		cfg.Driver = runDriver
	}
	if runOut != "" {
		cfg.OutputDir = runOut
	}
	if runCharset != "" {
		cfg.SourceCharset = runCharset
	}
	if cfg.DSN == "" {
		return fmt.Errorf("no DSN configured (set BLOGMIG_DSN or use --dsn)")
	}

	codec, err := textenc.NewCodec(cfg.SourceCharset)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer database.Close()

	out, err := sink.NewDir(cfg.OutputDir)
	if err != nil {
		return err
	}

	m := migrate.New(legacy.New(database), codec, out)
	report, err := m.Run()
	if err != nil {
		return err
	}

	for _, res := range report.Results {
		switch {
		case res.Skipped:
			fmt.Fprintf(cmd.OutOrStdout(), "skipped post %d: not published\n", res.PostID)
		case res.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %v\n", res.Err)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d written, %d failed, %d skipped\n",
		report.RunID, report.Written, report.Failed, report.Skipped)

	if report.Failed > 0 {
		return fmt.Errorf("%d post(s) failed to migrate", report.Failed)
	}
	return nil
}
