package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/drugkit/internal/application/scrape"
	"github.com/turtacn/drugkit/internal/config"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugkit/internal/infrastructure/rcsb"
	"github.com/turtacn/drugkit/pkg/errors"
)

// scrapeOptions holds the scrape command flags.
type scrapeOptions struct {
	LigandSMILES string
	TitleFilter  string
	OutDir       string
	NoDownload   bool
	MetricsFile  string
}

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape <query>",
		Short: "Download PDB structures matching a keyword query and summarise them",
		Long: "Searches the RCSB Protein Data Bank, downloads each hit as <CODE>.pdb and\n" +
			"appends its title, resolution and primary citation to summary.csv.  The\n" +
			"output folder defaults to the query with spaces replaced by underscores.",
		Example: `  drugkit scrape "integrin alpha V beta 6"
  drugkit scrape kinase --ligand-smiles "c1ccc2ncccc2c1" --title-filter "complex" --no-download`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runScrape(cmd, cliCtx, opts, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.LigandSMILES, "ligand-smiles", "", "only entries containing a ligand with this SMILES substructure")
	f.StringVar(&opts.TitleFilter, "title-filter", "", "keep entries whose title matches (case-insensitive regexp or substring)")
	f.StringVar(&opts.OutDir, "out-dir", "", "output folder (default: the query with spaces replaced by _)")
	f.BoolVar(&opts.NoDownload, "no-download", false, "write the summary without downloading structure files")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	return cmd
}

func newRCSBClient(cfg *config.Config, logger logging.Logger) (rcsb.Client, error) {
	sc := cfg.Scraper
	return rcsb.NewClient(rcsb.Config{
		SearchURL: sc.SearchURL,
		SiteURL:   sc.SiteURL,
		FilesURL:  sc.FilesURL,
		Timeout:   sc.Timeout,
		UserAgent: sc.UserAgent,
	}, logger)
}

func runScrape(cmd *cobra.Command, cliCtx *CLIContext, opts *scrapeOptions, query string) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger

	client, err := newRCSBClient(cfg, logger)
	if err != nil {
		return err
	}

	input := &scrape.RunInput{
		Query:        query,
		LigandSMILES: opts.LigandSMILES,
		TitleFilter:  opts.TitleFilter,
		OutDir:       cfg.Scraper.OutDir,
		NoDownload:   opts.NoDownload,
		MetricsFile:  cfg.Metrics.Textfile,
	}
	if cmd.Flags().Changed("out-dir") {
		input.OutDir = opts.OutDir
	}
	if cmd.Flags().Changed("metrics-file") {
		input.MetricsFile = opts.MetricsFile
	}

	var svcOpts []scrape.ServiceOption
	if input.MetricsFile != "" {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: cfg.Metrics.Namespace}, logger)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "metrics initialization failed")
		}
		svcOpts = append(svcOpts, scrape.WithMetrics(collector))
	}
	svc, err := scrape.NewService(client, logger, svcOpts...)
	if err != nil {
		return err
	}

	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	if !opts.NoDownload {
		fmt.Fprintln(cmd.ErrOrStderr(), "Downloading structures...")
	}
	result, err := svc.Run(ctx, input)
	if err != nil {
		logger.Error("scrape failed", logging.Err(err))
		return err
	}
	report := &scrapeReport{RunResult: result}
	switch strings.ToLower(cliCtx.OutputFormat) {
	case "json", "table":
		return PrintResult(cmd, report)
	default:
		PrintSuccess(cmd, report.String())
		return nil
	}
}

// scrapeReport renders a scrape result.
type scrapeReport struct {
	*scrape.RunResult
}

func (r *scrapeReport) String() string {
	return fmt.Sprintf("Done! %d of %d entries summarised in %s (%d downloaded)",
		r.Rows, r.Hits, r.SummaryPath, len(r.Downloaded))
}

func (r *scrapeReport) TableHeaders() []string {
	return []string{"Summary", "Hits", "Rows", "Downloaded", "Filtered"}
}

func (r *scrapeReport) TableRows() [][]string {
	return [][]string{{
		r.SummaryPath,
		fmt.Sprint(r.Hits),
		fmt.Sprint(r.Rows),
		fmt.Sprint(len(r.Downloaded)),
		fmt.Sprint(len(r.Filtered)),
	}}
}

//Personal.AI order the ending
