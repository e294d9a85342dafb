// Command osintcrawl runs one topic crawl and saves the records to a file or Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/topic-osint/internal/app"
	"github.com/kitbuilder587/topic-osint/internal/config"
	"github.com/kitbuilder587/topic-osint/internal/domain"
	"github.com/kitbuilder587/topic-osint/internal/output"
	"github.com/kitbuilder587/topic-osint/internal/repository"
	"github.com/kitbuilder587/topic-osint/internal/service"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	topic   string
	year    string
	country string
	max     int
	out     string
	workers int
	timeout time.Duration
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitError
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return exitUsage
	}

	cfg.Log.Service = "osintcrawl"
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	// Ctrl-C останавливает обход, но уже принятые записи сохраняются
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runs repository.RunRepository
	if output.IsDatabaseURL(opts.out) {
		repo, closeDB, err := app.OpenRuns(ctx, opts.out)
		if err != nil {
			logger.Error("failed to open database", zap.Error(err))
			fmt.Fprintf(stderr, "database: %v\n", err)
			return exitError
		}
		defer closeDB()
		runs = repo
	}

	writer, err := output.ForPath(opts.out, runs)
	if err != nil {
		fmt.Fprintf(stderr, "output: %v\n", err)
		return exitError
	}

	crawler := app.NewCrawler(cfg, logger, nil)
	defer crawler.Close()

	query := &domain.CrawlQuery{
		Topic:      opts.topic,
		Year:       opts.year,
		Country:    opts.country,
		MaxResults: opts.max,
	}

	crawlRun, err := crawler.Service.CrawlWithOptions(ctx, query, service.CrawlOptions{
		Workers: opts.workers,
		Timeout: opts.timeout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "crawl failed: %v\n", err)
		return exitError
	}

	if len(crawlRun.Records) == 0 {
		fmt.Fprintln(stdout, "no records found")
		return exitOK
	}

	// запись не должна обрываться вместе с обходом
	if err := writer.Write(context.WithoutCancel(ctx), crawlRun); err != nil {
		logger.Error("failed to write output", zap.String("out", redact(opts.out)), zap.Error(err))
		fmt.Fprintf(stderr, "write %s: %v\n", redact(opts.out), err)
		return exitError
	}

	fmt.Fprintf(stdout, "saved %d records to %s\n", len(crawlRun.Records), redact(opts.out))
	return exitOK
}

func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("osintcrawl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.topic, "topic", "", "topic to search for (required)")
	fs.StringVar(&opts.year, "year", domain.AnyYear, `year filter: "2024", "2022-2024" or "any"`)
	fs.StringVar(&opts.country, "country", domain.Worldwide, `country filter, e.g. "United Kingdom", or "worldwide"`)
	fs.IntVar(&opts.max, "max", domain.StandardStrategy().MaxResults, "maximum search results to process")
	fs.StringVar(&opts.out, "out", "results.json", "output: .json or .csv file, or a postgres:// URL")
	fs.IntVar(&opts.workers, "workers", cfg.Crawl.Workers, "concurrent page fetches")
	fs.DurationVar(&opts.timeout, "timeout", cfg.Crawl.Timeout, "deadline for the whole crawl, 0 for none")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	switch {
	case opts.topic == "":
		fs.Usage()
		return opts, errors.New("-topic is required")
	case opts.max <= 0:
		return opts, errors.New("-max must be positive")
	case opts.workers < 1 || opts.workers > config.MaxWorkers:
		return opts, fmt.Errorf("-workers must be between 1 and %d", config.MaxWorkers)
	case opts.timeout < 0:
		return opts, errors.New("-timeout must not be negative")
	}
	return opts, nil
}

// redact прячет пароль из DSN перед выводом.
func redact(out string) string {
	if !output.IsDatabaseURL(out) {
		return out
	}
	u, err := url.Parse(out)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
