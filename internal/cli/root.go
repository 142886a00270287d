package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kagglefetch",
	Short: "Fetch Kaggle dataset files and load NDJSON records",
	Long: `kagglefetch downloads a single file from a Kaggle dataset release, unwraps it
when the registry delivers a zip archive, and loads newline-delimited JSON into
a record table you can preview, export or copy into PostgreSQL.

Configuration precedence:
  flags > environment > .env > kagglefetch.yaml > ~/.kaggle/kaggle.json > defaults

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Download failed (registry, network or credentials)
  12 - Archive error (malformed zip or failed extraction)
  13 - Parse error (a line is not a JSON object)
  14 - File access error`,
	SilenceUsage: true,
}

type globalFlagValues struct {
	configPath string
	envFile    string
}

var globalFlags globalFlagValues

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "",
		"Path to kagglefetch.yaml (default: ./kagglefetch.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.envFile, "env-file", "",
		"Path to a .env file (default: ./.env when present)")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
