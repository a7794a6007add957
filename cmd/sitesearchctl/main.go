// sitesearchctl runs site searches, exports and catalog reads from the
// command line, in-process against a Solr core.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	sitesearch "github.com/kailas-cloud/sitesearch/pkg/sdk"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sitesearchctl",
		Usage: "Query the site search index from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "solr",
				Aliases: []string{"s"},
				Usage:   "Solr core base URL",
				EnvVars: []string{"SOLR_URL"},
				Value:   "http://localhost:8983/solr/site_search",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout of a single backend request",
				Value: 30 * time.Second,
			},
			&cli.StringFlag{
				Name:    "cache-dir",
				Usage:   "Keep the catalog documents in an on-disk cache under this directory",
				EnvVars: []string{"SITESEARCH_CACHE_DIR"},
			},
			&cli.DurationFlag{
				Name:  "cache-ttl",
				Usage: "Lifetime of cached catalog documents",
				Value: 10 * time.Minute,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run a faceted search and print the JSON envelope",
				ArgsUsage: "<text>",
				Flags: append(searchFlags(),
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Index of the first document",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Documents per page (max 50)",
						Value: sitesearch.DefaultLimit,
					},
					&cli.BoolFlag{
						Name:  "counts-only",
						Usage: "Print facet counts without documents",
					},
				),
				Action: searchCommand,
			},
			{
				Name:      "export",
				Usage:     "Stream the primary keys and scores of every match",
				ArgsUsage: "<text>",
				Flags: append(searchFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Documents fetched per backend page",
						Value: 10000,
					},
				),
				Action: exportCommand,
			},
			{
				Name:  "categories",
				Usage: "Print the catalog of categories and document types",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "project",
						Usage: "Project scope",
					},
				},
				Action: categoriesCommand,
			},
			{
				Name:      "suggest",
				Usage:     "Print typeahead completions",
				ArgsUsage: "<prefix>",
				Action:    suggestCommand,
			},
		},
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "project",
			Aliases: []string{"p"},
			Usage:   "Restrict documents and fields to a project",
		},
		&cli.StringFlag{
			Name:    "doc-type",
			Aliases: []string{"t"},
			Usage:   "Restrict the search to one document type",
		},
		&cli.StringSliceFlag{
			Name:  "field",
			Usage: "Restrict the search to a field of --doc-type (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "organism",
			Usage: "Restrict matching documents to an organism (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  "metadata-organism",
			Usage: "Report counts only for an organism (repeatable)",
		},
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func newClient(c *cli.Context, extra ...sitesearch.Option) (*sitesearch.Client, error) {
	opts := append([]sitesearch.Option{
		sitesearch.WithSolr(c.String("solr")),
		sitesearch.WithTimeout(c.Duration("timeout")),
		sitesearch.WithLogger(slog.Default()),
	}, extra...)
	if dir := c.String("cache-dir"); dir != "" {
		opts = append(opts, sitesearch.WithCatalogDiskCache(dir, c.Duration("cache-ttl")))
	}
	client, err := sitesearch.New(c.Context, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// requestFromFlags builds a search request from the positional text and
// the shared search flags.
func requestFromFlags(c *cli.Context) (sitesearch.SearchRequest, error) {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return sitesearch.SearchRequest{}, fmt.Errorf("search text is required")
	}
	return sitesearch.SearchRequest{
		Text:              text,
		Offset:            c.Int("offset"),
		Limit:             c.Int("limit"),
		Project:           c.String("project"),
		DocumentType:      c.String("doc-type"),
		FoundOnlyInFields: c.StringSlice("field"),
		SearchOrganisms:   c.StringSlice("organism"),
		MetadataOrganisms: c.StringSlice("metadata-organism"),
	}, nil
}

func searchCommand(c *cli.Context) error {
	req, err := requestFromFlags(c)
	if err != nil {
		return err
	}
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	var res sitesearch.Results
	if c.Bool("counts-only") {
		res, err = client.FieldCounts(c.Context, req)
	} else {
		res, err = client.Search(c.Context, req)
	}
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, res)
}

func exportCommand(c *cli.Context) error {
	req, err := requestFromFlags(c)
	if err != nil {
		return err
	}
	client, err := newClient(c, sitesearch.WithStreamBatchSize(c.Int("batch-size")))
	if err != nil {
		return err
	}
	defer client.Close()

	out := bufio.NewWriter(c.App.Writer)
	start := time.Now()
	n, err := client.Stream(c.Context, req, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		return fmt.Errorf("export stopped after %d documents: %w", n, err)
	}
	slog.Info("Export complete", "documents", n, "duration", time.Since(start))
	return nil
}

func categoriesCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	cat, err := client.Categories(c.Context, c.String("project"))
	if err != nil {
		return err
	}
	return printJSON(c.App.Writer, cat)
}

func suggestCommand(c *cli.Context) error {
	client, err := newClient(c)
	if err != nil {
		return err
	}
	defer client.Close()

	suggestions, err := client.Suggest(c.Context, strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	for _, s := range suggestions {
		fmt.Fprintln(c.App.Writer, s)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
