package prometheus

// RunMetrics holds the metrics recorded by one drugkit run.
type RunMetrics struct {
	// Intersect pipeline
	MoleculesLoaded   GaugeVec     // labels: collection, role
	Comparisons       CounterVec   // labels: fingerprint, match
	CommonMolecules   GaugeVec     // labels: reference
	IntersectDuration HistogramVec // labels: fingerprint
	OutputRecords     CounterVec   // labels: file

	// Scrape pipeline
	ScrapeHits      GaugeVec     // labels: query
	ScrapeRows      CounterVec   // labels: query
	ScrapeDownloads CounterVec   // labels: status
	ScrapeDuration  HistogramVec // labels: query

	// Errors across pipelines
	ErrorsTotal CounterVec // labels: pipeline, code
}

// DefaultRunDurationBuckets spans sub-second runs up to an hour.
var DefaultRunDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300, 900, 3600}

// NewRunMetrics registers all run metrics on c.
func NewRunMetrics(c MetricsCollector) *RunMetrics {
	return &RunMetrics{
		MoleculesLoaded: c.RegisterGauge("intersect_molecules_loaded",
			"Number of molecules read from each input collection.", "collection", "role"),
		Comparisons: c.RegisterCounter("intersect_comparisons_total",
			"Number of reference/candidate molecule comparisons performed.", "fingerprint", "match"),
		CommonMolecules: c.RegisterGauge("intersect_common_molecules",
			"Number of reference molecules found in every other collection.", "reference"),
		IntersectDuration: c.RegisterHistogram("intersect_duration_seconds",
			"Wall-clock duration of the intersect pipeline.", DefaultRunDurationBuckets, "fingerprint"),
		OutputRecords: c.RegisterCounter("intersect_output_records_total",
			"Number of records appended to each output file.", "file"),

		ScrapeHits: c.RegisterGauge("scrape_search_hits",
			"Number of PDB entries returned by the search.", "query"),
		ScrapeRows: c.RegisterCounter("scrape_summary_rows_total",
			"Number of rows written to the scrape summary.", "query"),
		ScrapeDownloads: c.RegisterCounter("scrape_downloads_total",
			"Number of structure file downloads by outcome.", "status"),
		ScrapeDuration: c.RegisterHistogram("scrape_duration_seconds",
			"Wall-clock duration of the scrape pipeline.", DefaultRunDurationBuckets, "query"),

		ErrorsTotal: c.RegisterCounter("errors_total",
			"Number of failed runs by pipeline and error code.", "pipeline", "code"),
	}
}

//Personal.AI order the ending
