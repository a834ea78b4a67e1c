package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "blogmig",
	Short: "Migrate the legacy blog database to Jekyll documents",
	Long: `blogmig reads posts, tags and comments from the old blog's database
and writes one Jekyll markdown document per published post, with
permalinks, categories and the old comment threads embedded.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
