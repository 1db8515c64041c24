package intersect

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/drugkit/internal/domain/molecule"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugkit/internal/infrastructure/sdf"
	"github.com/turtacn/drugkit/internal/infrastructure/storage/minio"
	"github.com/turtacn/drugkit/pkg/errors"
	mtypes "github.com/turtacn/drugkit/pkg/types/molecule"
)

// Service runs the intersect pipeline.
type Service interface {
	Run(ctx context.Context, input *RunInput) (*RunResult, error)
}

// CollectionLoader reads one input file.
type CollectionLoader interface {
	Load(path string) (*molecule.Collection, error)
}

// LoaderFunc adapts a function to CollectionLoader.
type LoaderFunc func(path string) (*molecule.Collection, error)

// Load implements CollectionLoader.
func (f LoaderFunc) Load(path string) (*molecule.Collection, error) { return f(path) }

// OutputExporter uploads output files after a run.
type OutputExporter interface {
	Export(ctx context.Context, runID string, paths []string) ([]minio.ExportedObject, error)
}

// RunInput contains the parameters of one run.  Paths are in input order;
// the last one is the reference collection.
type RunInput struct {
	Paths       []string
	OutDir      string
	Suffix      string
	Fingerprint mtypes.FingerprintType
	Match       mtypes.MatchMode
	Threshold   float64
	Export      bool
	MetricsFile string
}

// CollectionSummary describes one loaded collection.
type CollectionSummary struct {
	Path      string `json:"path"`
	Molecules int    `json:"molecules"`
	Reference bool   `json:"reference"`
	Output    string `json:"output"`
}

// RunResult reports the outcome of a run.
type RunResult struct {
	RunID       string                 `json:"run_id"`
	Common      int                    `json:"common"`
	Collections []CollectionSummary    `json:"collections"`
	Outputs     []string               `json:"outputs"`
	Exported    []minio.ExportedObject `json:"exported,omitempty"`
	Comparisons int64                  `json:"comparisons"`
	Duration    time.Duration          `json:"duration"`
}

// ServiceOption customises a Service.
type ServiceOption func(*serviceImpl)

// WithLoader replaces the SDF file loader.
func WithLoader(l CollectionLoader) ServiceOption {
	return func(s *serviceImpl) { s.loader = l }
}

// WithExporter enables export of outputs.
func WithExporter(e OutputExporter) ServiceOption {
	return func(s *serviceImpl) { s.exporter = e }
}

// WithMetrics records run metrics on c.
func WithMetrics(c prometheus.MetricsCollector) ServiceOption {
	return func(s *serviceImpl) { s.collector = c }
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	loader    CollectionLoader
	exporter  OutputExporter
	collector prometheus.MetricsCollector
	metrics   *prometheus.RunMetrics
	logger    logging.Logger
}

// NewService creates the intersect service.
func NewService(logger logging.Logger, opts ...ServiceOption) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		loader: LoaderFunc(sdf.ReadFile),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.collector != nil {
		s.metrics = prometheus.NewRunMetrics(s.collector)
	}
	return s
}

// Run loads every collection, intersects them and appends the common
// molecules to the output files.
func (s *serviceImpl) Run(ctx context.Context, input *RunInput) (*RunResult, error) {
	result, err := s.run(ctx, input)
	if err != nil && s.metrics != nil {
		s.metrics.ErrorsTotal.WithLabelValues("intersect", errors.GetCode(err).String()).Inc()
	}
	if input != nil && input.MetricsFile != "" && s.collector != nil {
		if werr := s.collector.WriteTextfile(input.MetricsFile); werr != nil {
			s.logger.Warn("failed to write metrics file", logging.String("path", input.MetricsFile), logging.Err(werr))
		}
	}
	return result, err
}

func (s *serviceImpl) run(ctx context.Context, input *RunInput) (*RunResult, error) {
	if input == nil || len(input.Paths) == 0 {
		return nil, errors.InvalidParam("at least one SDF file is required")
	}
	if input.Export && s.exporter == nil {
		return nil, errors.InvalidParam("export requested but object storage is not configured")
	}

	fpType := input.Fingerprint
	if fpType == "" {
		fpType = mtypes.FPTopological
	}
	mode := input.Match
	if mode == "" {
		mode = mtypes.MatchFingerprint
	}
	fper, err := molecule.NewFingerprinter(fpType)
	if err != nil {
		return nil, err
	}
	matcher, err := molecule.NewMatcher(mode, input.Threshold)
	if err != nil {
		return nil, err
	}

	outDir := input.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileWrite, "cannot create output directory").WithDetail(outDir)
	}

	start := time.Now()
	runID := uuid.NewString()
	log := s.logger.With(logging.String("run_id", runID))
	log.Info("starting intersect",
		logging.Int("collections", len(input.Paths)),
		logging.String("fingerprint", fpType.String()),
		logging.String("match", mode.String()))

	// ── Load ──────────────────────────────────────────────────────────────────
	collections := make([]*molecule.Collection, 0, len(input.Paths))
	for i, p := range input.Paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "intersect cancelled")
		}
		c, err := s.loader.Load(p)
		if err != nil {
			return nil, err
		}
		if err := c.Annotate(fper, mode == mtypes.MatchExact); err != nil {
			return nil, err
		}
		role := "other"
		if i == len(input.Paths)-1 {
			role = "reference"
		}
		log.Info("loaded collection",
			logging.String("path", p),
			logging.String("role", role),
			logging.Int("molecules", c.Len()))
		if s.metrics != nil {
			s.metrics.MoleculesLoaded.WithLabelValues(p, role).Set(float64(c.Len()))
		}
		collections = append(collections, c)
	}
	if len(collections) == 1 {
		log.Warn("only one collection supplied; every reference molecule is reported as common",
			logging.String("reference", input.Paths[0]))
	}

	// ── Intersect and emit ────────────────────────────────────────────────────
	emitter := NewEmitter(outDir, input.Suffix, collections)
	stats, err := NewEngine(matcher).Walk(collections, emitter.Emit)
	if err != nil {
		return nil, err
	}

	n := emitter.Count()
	log.Info(fmt.Sprintf("Found %d common molecules in all sdf files", n),
		logging.Int("common", n),
		logging.Int64("comparisons", stats.Comparisons))

	result := &RunResult{
		RunID:       runID,
		Common:      n,
		Outputs:     emitter.Files(),
		Comparisons: stats.Comparisons,
	}
	for i, c := range collections {
		result.Collections = append(result.Collections, CollectionSummary{
			Path:      c.Path,
			Molecules: c.Len(),
			Reference: i == len(collections)-1,
			Output:    OutputPath(outDir, input.Suffix, c),
		})
	}

	// ── Export ────────────────────────────────────────────────────────────────
	if input.Export && len(result.Outputs) > 0 {
		exported, err := s.exporter.Export(ctx, runID, result.Outputs)
		if err != nil {
			return nil, err
		}
		result.Exported = exported
		log.Info("exported outputs", logging.Int("objects", len(exported)))
	}

	result.Duration = time.Since(start)
	if s.metrics != nil {
		ref := input.Paths[len(input.Paths)-1]
		s.metrics.Comparisons.WithLabelValues(fpType.String(), mode.String()).Add(float64(stats.Comparisons))
		s.metrics.CommonMolecules.WithLabelValues(ref).Set(float64(n))
		s.metrics.IntersectDuration.WithLabelValues(fpType.String()).Observe(result.Duration.Seconds())
		for _, f := range result.Outputs {
			s.metrics.OutputRecords.WithLabelValues(f).Add(float64(emitter.Records(f)))
		}
	}
	return result, nil
}

//Personal.AI order the ending
