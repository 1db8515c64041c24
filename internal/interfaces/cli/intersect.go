package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/drugkit/internal/application/intersect"
	"github.com/turtacn/drugkit/internal/config"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugkit/internal/infrastructure/storage/minio"
	"github.com/turtacn/drugkit/pkg/errors"
	mtypes "github.com/turtacn/drugkit/pkg/types/molecule"
)

// intersectOptions holds the intersect command flags.
type intersectOptions struct {
	OutDir      string
	Suffix      string
	Fingerprint string
	Match       string
	Threshold   float64
	MetricsFile string
	Export      bool
}

// NewIntersectCmd creates the intersect command.
func NewIntersectCmd() *cobra.Command {
	opts := &intersectOptions{}

	cmd := &cobra.Command{
		Use:   "intersect <sdf>...",
		Short: "Find the molecules of the last SDF file present in every other file",
		Long: "Reads every SDF file, treats the last one as the reference and appends each\n" +
			"reference molecule found in all other files to <base>_output.sdf, together\n" +
			"with its first match from each other file.  Output files are appended to.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runIntersect(cmd, cliCtx, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.OutDir, "out-dir", "", "directory receiving output files (default from config: .)")
	f.StringVar(&opts.Suffix, "suffix", "", "suffix replacing the input extension (default from config: _output.sdf)")
	f.StringVar(&opts.Fingerprint, "fingerprint", "", "fingerprint type: topological|morgan")
	f.StringVar(&opts.Match, "match", "", "match criterion: fingerprint|exact|similarity")
	f.Float64Var(&opts.Threshold, "threshold", 0, "minimum Tanimoto score in similarity mode (0,1]")
	f.StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	f.BoolVar(&opts.Export, "export", false, "upload output files to the configured object storage")
	return cmd
}

// mergeIntersectConfig overlays explicitly set flags on the configured values.
func mergeIntersectConfig(cmd *cobra.Command, cfg *config.Config, opts *intersectOptions) (*intersect.RunInput, error) {
	ic := cfg.Intersect
	flags := cmd.Flags()
	if flags.Changed("out-dir") {
		ic.OutDir = opts.OutDir
	}
	if flags.Changed("suffix") {
		ic.Suffix = opts.Suffix
	}
	if flags.Changed("fingerprint") {
		ic.Fingerprint = opts.Fingerprint
	}
	if flags.Changed("match") {
		ic.Match = opts.Match
	}
	if flags.Changed("threshold") {
		ic.Threshold = opts.Threshold
	}
	metricsFile := cfg.Metrics.Textfile
	if flags.Changed("metrics-file") {
		metricsFile = opts.MetricsFile
	}

	fp, err := mtypes.ParseFingerprintType(ic.Fingerprint)
	if err != nil {
		return nil, err
	}
	mode, err := mtypes.ParseMatchMode(ic.Match)
	if err != nil {
		return nil, err
	}
	return &intersect.RunInput{
		OutDir:      ic.OutDir,
		Suffix:      ic.Suffix,
		Fingerprint: fp,
		Match:       mode,
		Threshold:   ic.Threshold,
		Export:      opts.Export,
		MetricsFile: metricsFile,
	}, nil
}

func runIntersect(cmd *cobra.Command, cliCtx *CLIContext, opts *intersectOptions, paths []string) error {
	cfg := cliCtx.Config
	logger := cliCtx.Logger

	input, err := mergeIntersectConfig(cmd, cfg, opts)
	if err != nil {
		return err
	}
	input.Paths = paths

	var svcOpts []intersect.ServiceOption
	if input.MetricsFile != "" {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: cfg.Metrics.Namespace}, logger)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "metrics initialization failed")
		}
		svcOpts = append(svcOpts, intersect.WithMetrics(collector))
	}
	if input.Export {
		exporter, err := newExporter(cfg, logger)
		if err != nil {
			return err
		}
		svcOpts = append(svcOpts, intersect.WithExporter(exporter))
	}

	ctx, cancel := cliCtx.withTimeout(cmd.Context())
	defer cancel()

	result, err := intersect.NewService(logger, svcOpts...).Run(ctx, input)
	if err != nil {
		logger.Error("intersect failed", logging.Err(err))
		return err
	}
	return PrintResult(cmd, &intersectReport{RunResult: result})
}

// newExporter connects the configured object storage.
func newExporter(cfg *config.Config, logger logging.Logger) (*minio.Exporter, error) {
	mc := cfg.Storage.MinIO
	if !mc.Enabled {
		return nil, errors.InvalidParam("--export requires storage.minio.enabled")
	}
	mcfg := minio.MinIOConfig{
		Endpoint:  mc.Endpoint,
		AccessKey: mc.AccessKey,
		SecretKey: mc.SecretKey,
		UseSSL:    mc.UseSSL,
		Region:    mc.Region,
		Bucket:    mc.Bucket,
		Prefix:    mc.Prefix,
	}
	api, err := minio.NewMinIOClient(mcfg)
	if err != nil {
		return nil, err
	}
	return minio.NewExporter(api, mcfg, logger), nil
}

// intersectReport renders an intersect result.
type intersectReport struct {
	*intersect.RunResult
}

func (r *intersectReport) String() string {
	s := fmt.Sprintf("Found %d common molecules in all sdf files (%d comparisons, %s)",
		r.Common, r.Comparisons, r.Duration)
	for _, o := range r.Outputs {
		s += "\n  " + o
	}
	for _, e := range r.Exported {
		s += fmt.Sprintf("\n  exported s3://%s/%s", e.Bucket, e.ObjectKey)
	}
	return s
}

func (r *intersectReport) TableHeaders() []string {
	return []string{"Collection", "Molecules", "Role", "Output"}
}

func (r *intersectReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Collections))
	for _, c := range r.Collections {
		role := "other"
		if c.Reference {
			role = "reference"
		}
		rows = append(rows, []string{c.Path, strconv.Itoa(c.Molecules), role, c.Output})
	}
	return rows
}

//Personal.AI order the ending
