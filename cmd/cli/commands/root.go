
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"speech-scraper/internal/config"
	"speech-scraper/internal/crawler"
	"speech-scraper/internal/ioformats"
	"speech-scraper/internal/models"
	"speech-scraper/internal/tapp"
	"speech-scraper/pkg/logger"
)

var (
	configPath string
	baseURL    string
	cachePath  string
	noCache    bool
	outputPath string
	verbosity  int
)

// scraper and closers are populated by the root pre-run hook.
var (
	scraper *tapp.Scraper
	closers []io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "speech-scraper",
	Short:         "Scrape The American Presidency Project (http://www.presidency.ucsb.edu/) into NDJSON speech records.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Setup(verbosity)

		cfg, err := config.Read(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if cmd.Flags().Changed("base-url") {
			cfg.BaseURL = baseURL
		}
		if cmd.Flags().Changed("cache") {
			cfg.CachePath = cachePath
		}

		var cache *crawler.Cache
		switch {
		case noCache:
		case cfg.CachePath == ":memory:":
			cache = crawler.NewCache(crawler.NewMemoryStore())
		default:
			store, err := crawler.OpenSQLiteStore(cfg.CachePath)
			if err != nil {
				return fmt.Errorf("open cache %s: %w", cfg.CachePath, err)
			}
			closers = append(closers, store)
			cache = crawler.NewCache(store)
		}
		slog.Debug("configured", "base_url", cfg.BaseURL, "cache", cfg.CachePath, "no_cache", noCache)

		client := crawler.NewHTTPClient(cfg.UserAgent, cfg.Timeout(), cache)
		scraper = tapp.New(client, cfg.BaseURL)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "config.json5", "configuration file (a .local variant is merged on top)")
	flags.StringVar(&baseURL, "base-url", tapp.DefaultBaseURL, "archive base url")
	flags.StringVar(&cachePath, "cache", "", "response cache database (\":memory:\" for a per-run cache)")
	flags.BoolVar(&noCache, "no-cache", false, "disable the response cache")
	flags.StringVarP(&outputPath, "output", "o", "", "output NDJSON file (default stdout)")
	flags.CountVarP(&verbosity, "verbose", "v", "log extra information (repeat for even more, up to 3)")
}

// emit writes each record as soon as it is produced and stops at the first
// error.
func emit(cmd *cobra.Command, records iter.Seq2[models.SpeechRecord, error]) (err error) {
	var w io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, cerr := os.Create(outputPath)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
			}
		}()
		w = f
	}

	out := ioformats.NewRecordWriter(w)
	n := 0
	for record, err := range records {
		if err != nil {
			return err
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		n++
	}
	slog.Info("done", "records", n)
	return nil
}

// closeAll releases what the pre-run hook opened.
func closeAll() error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	return errors.Join(errs...)
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeAll(); cerr != nil {
		slog.Warn("closing cache failed", "error", cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
