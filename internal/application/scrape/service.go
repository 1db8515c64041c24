// Package scrape collects Protein Data Bank entries matching a keyword query:
// it downloads their structure files and writes a CSV summary of their
// metadata.
package scrape

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/drugkit/internal/infrastructure/rcsb"
	"github.com/turtacn/drugkit/pkg/errors"
)

// SummaryFile is the name of the CSV summary written into the output folder.
const SummaryFile = "summary.csv"

// Unknown stands in for metadata missing from an entry page.
const Unknown = "unknown"

// validCode matches the entry identifiers accepted from the search service;
// they become file names inside the output folder.
var validCode = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SummaryHeader is the header row of the CSV summary.
var SummaryHeader = []string{"PDB code", "Title", "Resolution", "Reference Title", "Reference DOI"}

// Service runs the scrape pipeline.
type Service interface {
	Run(ctx context.Context, input *RunInput) (*RunResult, error)
}

// RunInput contains the parameters of one scrape.
type RunInput struct {
	Query        string
	LigandSMILES string
	// TitleFilter keeps only entries whose title matches it, as a
	// case-insensitive regular expression or, if it does not compile, as a
	// case-insensitive substring.
	TitleFilter string
	OutDir      string
	NoDownload  bool
	MetricsFile string
}

// RunResult reports the outcome of a scrape.
type RunResult struct {
	Folder      string        `json:"folder"`
	SummaryPath string        `json:"summary_path"`
	Hits        int           `json:"hits"`
	Rows        int           `json:"rows"`
	Downloaded  []string      `json:"downloaded"`
	Filtered    []string      `json:"filtered,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// ServiceOption customises a Service.
type ServiceOption func(*serviceImpl)

// WithMetrics records scrape metrics on c.
func WithMetrics(c prometheus.MetricsCollector) ServiceOption {
	return func(s *serviceImpl) { s.collector = c }
}

type serviceImpl struct {
	client    rcsb.Client
	collector prometheus.MetricsCollector
	metrics   *prometheus.RunMetrics
	logger    logging.Logger
}

// NewService creates the scrape service on top of client.
func NewService(client rcsb.Client, logger logging.Logger, opts ...ServiceOption) (Service, error) {
	if client == nil {
		return nil, errors.InvalidParam("rcsb client cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{client: client, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.collector != nil {
		s.metrics = prometheus.NewRunMetrics(s.collector)
	}
	return s, nil
}

// FolderFor returns the default output folder of query.
func FolderFor(query string) string {
	return strings.ReplaceAll(strings.TrimSpace(query), " ", "_")
}

// Run searches, filters, downloads and summarises.
func (s *serviceImpl) Run(ctx context.Context, input *RunInput) (*RunResult, error) {
	result, err := s.run(ctx, input)
	if err != nil && s.metrics != nil {
		s.metrics.ErrorsTotal.WithLabelValues("scrape", errors.GetCode(err).String()).Inc()
	}
	if input != nil && input.MetricsFile != "" && s.collector != nil {
		if werr := s.collector.WriteTextfile(input.MetricsFile); werr != nil {
			s.logger.Warn("failed to write metrics file", logging.String("path", input.MetricsFile), logging.Err(werr))
		}
	}
	return result, err
}

func (s *serviceImpl) run(ctx context.Context, input *RunInput) (*RunResult, error) {
	if input == nil || strings.TrimSpace(input.Query) == "" {
		return nil, errors.InvalidParam("query is required")
	}
	match := newTitleFilter(input.TitleFilter)

	folder := input.OutDir
	if folder == "" {
		folder = FolderFor(input.Query)
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileWrite, "cannot create output folder").WithDetail(folder)
	}

	var hist prometheus.Histogram
	if s.metrics != nil {
		hist = s.metrics.ScrapeDuration.WithLabelValues(input.Query)
	}
	timer := prometheus.NewTimer(hist)

	codes, err := s.client.Search(ctx, rcsb.SearchQuery{Text: input.Query, LigandSMILES: input.LigandSMILES})
	if err != nil {
		return nil, err
	}
	s.logger.Info("search completed", logging.String("query", input.Query), logging.Int("hits", len(codes)))
	if s.metrics != nil {
		s.metrics.ScrapeHits.WithLabelValues(input.Query).Set(float64(len(codes)))
	}

	result := &RunResult{
		Folder:      folder,
		SummaryPath: filepath.Join(folder, SummaryFile),
		Hits:        len(codes),
	}

	for _, code := range codes {
		if !validCode.MatchString(code) {
			return nil, errors.New(errors.ErrCodeDataSourceParseError, "invalid entry identifier").WithDetail(code)
		}
		entry, err := s.client.Entry(ctx, code)
		if err != nil {
			return nil, err
		}
		if !match(entry.Title) {
			s.logger.Debug("entry filtered out", logging.String("code", code), logging.String("title", entry.Title))
			result.Filtered = append(result.Filtered, code)
			continue
		}

		if input.NoDownload {
			s.countDownload("skipped")
		} else {
			if err := s.download(ctx, folder, code); err != nil {
				s.countDownload("failed")
				return nil, err
			}
			s.countDownload("ok")
			result.Downloaded = append(result.Downloaded, code)
		}
		if err := appendSummary(result.SummaryPath, summaryRow(entry)); err != nil {
			return nil, err
		}
		result.Rows++
		if s.metrics != nil {
			s.metrics.ScrapeRows.WithLabelValues(input.Query).Inc()
		}
	}

	if result.Rows == 0 {
		if err := appendSummary(result.SummaryPath); err != nil {
			return nil, err
		}
	}
	result.Duration = timer.ObserveDuration()

	s.logger.Info("scrape finished",
		logging.String("summary", result.SummaryPath),
		logging.Int("rows", result.Rows),
		logging.Int("downloaded", len(result.Downloaded)),
		logging.Duration("duration", result.Duration))
	return result, nil
}

func (s *serviceImpl) countDownload(status string) {
	if s.metrics != nil {
		s.metrics.ScrapeDownloads.WithLabelValues(status).Inc()
	}
}

// download writes code's structure file to <folder>/<CODE>.pdb.  The body is
// streamed into a temporary file that is renamed into place only once the
// transfer succeeds.
func (s *serviceImpl) download(ctx context.Context, folder, code string) error {
	name := strings.ToUpper(code) + ".pdb"
	path := filepath.Join(folder, name)
	tmp, err := os.CreateTemp(folder, "."+name+".*.part")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileWrite, "cannot create structure file").WithDetail(path)
	}

	n, err := s.client.Download(ctx, code, tmp)
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = errors.Wrap(cerr, errors.ErrCodeFileWrite, "cannot close structure file").WithDetail(path)
	}
	if err == nil {
		if rerr := os.Rename(tmp.Name(), path); rerr != nil {
			err = errors.Wrap(rerr, errors.ErrCodeFileWrite, "cannot move structure file into place").WithDetail(path)
		}
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	s.logger.Debug("downloaded structure", logging.String("code", code), logging.Int64("bytes", n))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func newTitleFilter(expr string) func(string) bool {
	if expr == "" {
		return func(string) bool { return true }
	}
	if re, err := regexp.Compile("(?i)" + expr); err == nil {
		return re.MatchString
	}
	needle := strings.ToLower(expr)
	return func(title string) bool {
		return strings.Contains(strings.ToLower(title), needle)
	}
}

func summaryRow(e *rcsb.Entry) []string {
	return []string{
		e.Code,
		orUnknown(e.Title),
		orUnknown(e.Resolution),
		orUnknown(e.ReferenceTitle),
		orUnknown(e.ReferenceDOI),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// appendSummary appends rows to path, writing the header first when the
// file is new or empty.
func appendSummary(path string, rows ...[]string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileWrite, "cannot open summary").WithDetail(path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrCodeFileWrite, "cannot close summary").WithDetail(path)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFileWrite, "cannot stat summary").WithDetail(path)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(SummaryHeader); err != nil {
			return errors.Wrap(err, errors.ErrCodeFileWrite, "cannot write summary header").WithDetail(path)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return errors.Wrap(err, errors.ErrCodeFileWrite, "cannot write summary").WithDetail(path)
	}
	return nil
}

//Personal.AI order the ending
