package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/logger"
	"github.com/janhq/searxng-tools/internal/infrastructure/searxng"
	"github.com/janhq/searxng-tools/internal/infrastructure/webfetch"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type options struct {
	baseURL     string
	format      string
	output      string
	categories  string
	engines     string
	language    string
	timeout     int
	listEngines bool
	verbose     bool
}

// errEnginesFailed makes main exit 1 after the error was already printed.
var errEnginesFailed = errors.New("failed to list engines")

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "searxng-search [query]",
		Short: "Query a SearXNG search engine",
		Long:  "searxng-search queries a running SearXNG instance and prints its results.",
		Example: `  searxng-search "python programming"
  searxng-search "docker compose" --format json
  searxng-search "machine learning" --categories general,it
  searxng-search "github" --engines github,stackoverflow
  searxng-search "test query" --output pretty --base-url https://search.example.com`,
		Version:       "1.0.0",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != domainsearch.FormatJSON && opts.format != domainsearch.FormatHTML {
				return fmt.Errorf("invalid --format %q (choose html or json)", opts.format)
			}
			if !validOutput(opts.output) {
				return fmt.Errorf("invalid --output %q (choose %s)", opts.output, strings.Join(outputStyles, ", "))
			}

			level := "error"
			if opts.verbose {
				level = "debug"
			}
			logger.Init(level, "console")

			service := newService(opts)
			if opts.listEngines {
				return listEngines(cmd.Context(), out, service)
			}
			if len(args) == 0 {
				return fmt.Errorf("a search query is required")
			}
			return runSearch(cmd.Context(), out, service, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.baseURL, "base-url", "http://localhost:7777", "Base URL of SearXNG instance")
	flags.StringVar(&opts.format, "format", domainsearch.FormatJSON, "Response format (html or json)")
	flags.StringVar(&opts.output, "output", OutputPretty, "Output format (pretty, json, simple or yaml)")
	flags.StringVar(&opts.categories, "categories", "", "Comma-separated list of categories (e.g., general,it,videos)")
	flags.StringVar(&opts.engines, "engines", "", "Comma-separated list of engines to use")
	flags.StringVar(&opts.language, "language", domainsearch.DefaultLanguage, "Language code")
	flags.IntVar(&opts.timeout, "timeout", 30, "Request timeout in seconds")
	flags.BoolVar(&opts.listEngines, "list-engines", false, "List available search engines and exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log upstream requests to stderr")

	cmd.SetOut(out)
	return cmd
}

func newService(opts *options) *domainsearch.SearchService {
	timeout := time.Duration(opts.timeout) * time.Second
	client := searxng.NewClient(searxng.ClientConfig{
		BaseURL:   opts.baseURL,
		UserAgent: browserUserAgent,
		Timeout:   timeout,
	})
	fetcher := webfetch.NewFetcher(webfetch.FetcherConfig{
		UserAgent: browserUserAgent,
		Timeout:   timeout,
	})
	return domainsearch.NewSearchService(client, fetcher, domainsearch.ServiceConfig{})
}

func listEngines(ctx context.Context, out io.Writer, service *domainsearch.SearchService) error {
	catalog, err := service.Engines(ctx)
	if err != nil {
		fmt.Fprintf(out, "Error getting engines: %v\n", err)
		return errEnginesFailed
	}
	fmt.Fprintln(out, formatEngines(catalog))
	return nil
}

func runSearch(ctx context.Context, out io.Writer, service *domainsearch.SearchService, opts *options, query string) error {
	categories := splitFlag(opts.categories)
	engines := splitFlag(opts.engines)

	fmt.Fprintf(out, "Searching for: '%s'\n", query)
	fmt.Fprintf(out, "Using SearXNG at: %s\n", opts.baseURL)
	if len(categories) > 0 {
		fmt.Fprintf(out, "Categories: %s\n", strings.Join(categories, ", "))
	}
	if len(engines) > 0 {
		fmt.Fprintf(out, "Engines: %s\n", strings.Join(engines, ", "))
	}
	fmt.Fprintln(out, strings.Repeat("-", 50))

	start := time.Now()
	resp, err := service.Search(ctx, domainsearch.SearchRequest{
		Query:      query,
		Categories: categories,
		Engines:    engines,
		Language:   opts.language,
		Format:     opts.format,
	})
	elapsed := time.Since(start)

	// Search failures are reported on stdout and do not change the exit code.
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}

	formatted, err := formatResults(resp, opts.output)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatted)

	if _, failed := resp.ErrorMessage(); !failed {
		fmt.Fprintf(out, "\nSearch completed in %.2f seconds\n", elapsed.Seconds())
	}
	return nil
}

func splitFlag(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errEnginesFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
