package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/kagglefetch/internal/config"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

var getCmd = &cobra.Command{
	Use:   "get <handle> <filename>",
	Short: "Download a dataset file and print its local path",
	Long: `Download a single file from a Kaggle dataset release.

When the registry delivers the file wrapped in a zip archive, the archive is
extracted next to it and deleted. The path of the ready-to-use file is printed
on stdout; progress goes to stderr.`,
	Example: `  # Latest release
  kagglefetch get yelp-dataset/yelp-dataset yelp_academic_dataset_business.json

  # Pinned release into a custom cache
  kagglefetch get yelp-dataset/yelp-dataset yelp_academic_dataset_review.json \
    --dataset-version 4 --cache-dir /data/kagglehub`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

type getFlagValues struct {
	version  int
	cacheDir string
}

var getFlags getFlagValues

func resetGetFlags() {
	getFlags = getFlagValues{}
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().IntVar(&getFlags.version, "dataset-version", 0,
		"Dataset release to download (default: latest)")
	getCmd.Flags().StringVar(&getFlags.cacheDir, "cache-dir", "",
		"Download cache root\n"+
			"Precedence: --cache-dir > $KAGGLEHUB_CACHE > cache_dir in kagglefetch.yaml > ~/.cache/kagglehub")

	_ = getCmd.RegisterFlagCompletionFunc("cache-dir", completeDirectories)
}

func runGet(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	ref := kagglefetch.Reference{Handle: args[0], Version: getFlags.version}
	if err := ref.Validate(args[1]); err != nil {
		return err
	}

	settings, err := loadSettings(config.Overrides{CacheDir: getFlags.cacheDir})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	path, err := fetch(ctx, settings, ref, args[1], verbose)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
