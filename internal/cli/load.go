package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/kagglefetch/internal/config"
	"github.com/vvka-141/kagglefetch/internal/db"
	"github.com/vvka-141/kagglefetch/internal/files/loader"
	"github.com/vvka-141/kagglefetch/internal/logging"
	"github.com/vvka-141/kagglefetch/internal/table"
	"github.com/vvka-141/kagglefetch/internal/tui"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// Output formats accepted by --format.
const (
	FormatTable   = "table"
	FormatNDJSON  = "ndjson"
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load an NDJSON file into a record table",
	Long: `Load a newline-delimited JSON file, one object per line, into a record table.

--bytes caps how much of the file is read. Only whole lines are loaded: a line,
terminator included, is kept only while the running total stays within the cap.

The table is previewed on stdout by default. --format exports it as NDJSON, CSV
or Parquet instead, and --pg-table copies it into a PostgreSQL table.`,
	Example: `  # Preview the first rows of a local file
  kagglefetch load business.json --bytes 1000000 --head 10

  # Fetch from Kaggle, then load
  kagglefetch load yelp_academic_dataset_business.json --dataset yelp-dataset/yelp-dataset

  # Export to Parquet
  kagglefetch load business.json --format parquet --output business.parquet

  # Copy into PostgreSQL
  kagglefetch load business.json --postgres postgres://localhost/yelp --pg-table staging.business`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	bytes    int64
	head     int
	format   string
	output   string
	postgres string
	pgTable  string
	dataset  string
	version  int
	cacheDir string

	pgAuth         string
	awsRegion      string
	azureTenantID  string
	azureClientID  string
	googleInstance string
}

var loadFlags loadFlagValues

func resetLoadFlags() {
	loadFlags = loadFlagValues{bytes: loader.NoLimit, head: 5, format: FormatTable}
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().Int64Var(&loadFlags.bytes, "bytes", loader.NoLimit,
		"Read whole lines up to this many bytes (-1 reads the entire file)")
	loadCmd.Flags().IntVar(&loadFlags.head, "head", 5,
		"Rows to show in the table preview (-1 shows all)")
	loadCmd.Flags().StringVar(&loadFlags.format, "format", FormatTable,
		"Output format: table|ndjson|csv|parquet")
	loadCmd.Flags().StringVarP(&loadFlags.output, "output", "o", "",
		"Write the export to this file instead of stdout (required for parquet)")
	loadCmd.Flags().StringVar(&loadFlags.postgres, "postgres", "",
		"PostgreSQL connection URL for --pg-table\n"+
			"Precedence: --postgres > $DATABASE_URL > postgres.url in kagglefetch.yaml")
	loadCmd.Flags().StringVar(&loadFlags.pgTable, "pg-table", "",
		"Copy the loaded rows into this table (created when missing; schema.table allowed)")
	loadCmd.Flags().StringVar(&loadFlags.pgAuth, "pg-auth", "",
		"PostgreSQL authentication: password|aws|google|azure (default: password)\n"+
			"Precedence: --pg-auth > $KAGGLEFETCH_PG_AUTH > postgres.auth_method in kagglefetch.yaml")
	loadCmd.Flags().StringVar(&loadFlags.awsRegion, "aws-region", "",
		"AWS region for --pg-auth aws (default: $AWS_REGION)")
	loadCmd.Flags().StringVar(&loadFlags.azureTenantID, "azure-tenant-id", "",
		"Azure tenant for --pg-auth azure (default: $AZURE_TENANT_ID)")
	loadCmd.Flags().StringVar(&loadFlags.azureClientID, "azure-client-id", "",
		"Azure client for --pg-auth azure (default: $AZURE_CLIENT_ID; secret from $AZURE_CLIENT_SECRET)")
	loadCmd.Flags().StringVar(&loadFlags.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance) for --pg-auth google")
	loadCmd.Flags().StringVar(&loadFlags.dataset, "dataset", "",
		"Fetch <file> from this Kaggle dataset handle before loading")
	loadCmd.Flags().IntVar(&loadFlags.version, "dataset-version", 0,
		"Dataset release used with --dataset (default: latest)")
	loadCmd.Flags().StringVar(&loadFlags.cacheDir, "cache-dir", "",
		"Download cache root used with --dataset")

	_ = loadCmd.RegisterFlagCompletionFunc("format", completeOutputFormats)
	_ = loadCmd.RegisterFlagCompletionFunc("cache-dir", completeDirectories)
	_ = loadCmd.RegisterFlagCompletionFunc("pg-auth", completeAuthMethods)
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	path := args[0]

	if err := validateLoadFlags(); err != nil {
		return err
	}

	settings, err := loadSettings(config.Overrides{
		CacheDir:       loadFlags.cacheDir,
		PostgresURL:    loadFlags.postgres,
		PostgresTable:  loadFlags.pgTable,
		PostgresAuth:   loadFlags.pgAuth,
		AWSRegion:      loadFlags.awsRegion,
		AzureTenantID:  loadFlags.azureTenantID,
		AzureClientID:  loadFlags.azureClientID,
		GoogleInstance: loadFlags.googleInstance,
	})
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)

	var connector db.Connector
	if settings.PostgresTable != "" {
		connector, err = newConnector(settings, logger)
		if err != nil {
			return err
		}
		if c, ok := connector.(io.Closer); ok {
			defer c.Close()
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	if loadFlags.dataset != "" {
		ref := kagglefetch.Reference{Handle: loadFlags.dataset, Version: loadFlags.version}
		path, err = fetch(ctx, settings, ref, path, verbose)
		if err != nil {
			return err
		}
	}

	tbl, err := loader.NewLoader(nil, logger).Load(path, loadFlags.bytes)
	if err != nil {
		return err
	}

	if connector != nil {
		if err := copyToPostgres(ctx, connector, settings.PostgresTable, tbl, logger); err != nil {
			return err
		}
	}

	return writeOutput(cmd.OutOrStdout(), tbl)
}

func validateLoadFlags() error {
	if loadFlags.bytes < loader.NoLimit {
		return fmt.Errorf("invalid argument %d for --bytes: %w", loadFlags.bytes, kagglefetch.ErrInvalidByteLimit)
	}
	switch loadFlags.format {
	case FormatTable, FormatNDJSON, FormatCSV:
	case FormatParquet:
		if loadFlags.output == "" {
			return fmt.Errorf("invalid argument: --format parquet requires --output")
		}
	default:
		return fmt.Errorf("invalid argument %q for --format: expected one of %s",
			loadFlags.format, strings.Join(outputFormats, "|"))
	}
	return nil
}

// newConnector checks the PostgreSQL settings before any work is done.
func newConnector(settings *config.Settings, logger kagglefetch.Logger) (db.Connector, error) {
	if settings.PostgresURL == "" {
		return nil, fmt.Errorf("a PostgreSQL table was requested but no connection URL is configured "+
			"(use --postgres, $DATABASE_URL or postgres.url): %w", kagglefetch.ErrInvalidConfig)
	}

	connector, err := db.NewConnector(settings.PostgresURL, db.ConnectOptions{
		AuthMethod:        settings.PostgresAuth,
		AWSRegion:         settings.AWSRegion,
		AzureTenantID:     settings.AzureTenantID,
		AzureClientID:     settings.AzureClientID,
		AzureClientSecret: settings.AzureClientSecret,
		GoogleInstance:    settings.GoogleInstance,
		Logger:            logger,
	})
	if err != nil {
		if errors.Is(err, kagglefetch.ErrInvalidConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", kagglefetch.ErrInvalidConfig, err)
	}
	logger.Verbose("PostgreSQL authentication: %s", settings.PostgresAuth)
	return connector, nil
}

func copyToPostgres(ctx context.Context, connector db.Connector, target string, tbl *table.Table, logger kagglefetch.Logger) error {
	pool, err := connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", kagglefetch.ErrExportFailed, err)
	}
	defer pool.Close()

	n, err := db.NewSink(pool).WriteTable(ctx, target, tbl)
	if err != nil {
		return fmt.Errorf("%w: %w", kagglefetch.ErrExportFailed, err)
	}
	logger.Info("Copied %d rows into %s", n, target)
	return nil
}

// writeOutput renders the preview or export selected by --format.
func writeOutput(stdout io.Writer, tbl *table.Table) error {
	if loadFlags.format == FormatTable {
		_, err := io.WriteString(stdout, tui.RenderPreview(tbl.Head(loadFlags.head), tui.PreviewOptions{TotalRows: tbl.Len()}))
		return err
	}

	if loadFlags.output == "" {
		return export(stdout, tbl)
	}

	f, err := os.Create(loadFlags.output)
	if err != nil {
		return fmt.Errorf("%w: %w", kagglefetch.ErrExportFailed, err)
	}
	if err := export(f, tbl); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", kagglefetch.ErrExportFailed, err)
	}
	return nil
}

func export(w io.Writer, tbl *table.Table) error {
	var err error
	switch loadFlags.format {
	case FormatNDJSON:
		err = tbl.WriteNDJSON(w)
	case FormatCSV:
		err = tbl.WriteCSV(w)
	case FormatParquet:
		err = tbl.WriteParquet(w)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", kagglefetch.ErrExportFailed, loadFlags.format, err)
	}
	return nil
}
