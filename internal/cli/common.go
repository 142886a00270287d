package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vvka-141/kagglefetch/internal/config"
	"github.com/vvka-141/kagglefetch/internal/registry"
	"github.com/vvka-141/kagglefetch/internal/services"
	"github.com/vvka-141/kagglefetch/internal/tui"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// signalContext returns a context cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// loadSettings resolves configuration from the global flags and the
// command's own overrides.
func loadSettings(overrides config.Overrides) (*config.Settings, error) {
	return config.LoadSettings(config.LoadOptions{
		ConfigPath: globalFlags.configPath,
		EnvFile:    globalFlags.envFile,
	}, overrides)
}

// fetch downloads filename from ref behind a spinner and returns the ready path.
func fetch(ctx context.Context, settings *config.Settings, ref kagglefetch.Reference, filename string, verbose bool) (string, error) {
	message := fmt.Sprintf("Fetching %s from %s", filename, ref)
	return tui.RunWithSpinner(ctx, message, verbose, func(ctx context.Context, logger kagglefetch.Logger) (string, error) {
		username, key, err := settings.Credentials()
		if err != nil {
			return "", err
		}
		reg := registry.NewKaggle(registry.Options{
			Endpoint: settings.Endpoint,
			Username: username,
			Key:      key,
			CacheDir: settings.CacheDir,
			Timeout:  settings.Timeout,
			Logger:   logger,
		})
		if username == "" || key == "" {
			logger.Verbose("No Kaggle credentials configured; requesting anonymously")
		}
		return services.NewFetcher(reg, logger).GetFile(ctx, ref, filename)
	})
}
