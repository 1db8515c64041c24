// Package rcsb talks to the RCSB Protein Data Bank: the search API, the
// structure summary pages and the file download service.
package rcsb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/turtacn/drugkit/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/drugkit/pkg/errors"
)

// Client is the interface to the Protein Data Bank.
type Client interface {
	Search(ctx context.Context, q SearchQuery) ([]string, error)
	Entry(ctx context.Context, code string) (*Entry, error)
	Download(ctx context.Context, code string, w io.Writer) (int64, error)
}

// SearchQuery selects PDB entries.  LigandSMILES, when set, restricts the
// hits to entries containing a ligand with that substructure.
type SearchQuery struct {
	Text         string
	LigandSMILES string
}

// Entry is the metadata scraped from a structure summary page.  Empty fields
// were not present on the page.
type Entry struct {
	Code           string `json:"code"`
	Title          string `json:"title"`
	Resolution     string `json:"resolution"`
	ReferenceTitle string `json:"reference_title"`
	ReferenceDOI   string `json:"reference_doi"`
}

// Config configures the client endpoints.
type Config struct {
	SearchURL string        `json:"search_url"`
	SiteURL   string        `json:"site_url"`
	FilesURL  string        `json:"files_url"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent"`
}

type client struct {
	config     Config
	httpClient *http.Client
	logger     logging.Logger
}

// ClientOption customises the client.
type ClientOption func(*client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *client) {
		c.httpClient = hc
	}
}

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config, logger logging.Logger, opts ...ClientOption) (Client, error) {
	if cfg.SearchURL == "" || cfg.SiteURL == "" || cfg.FilesURL == "" {
		return nil, errors.InvalidParam("rcsb: search, site and files URLs are required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	cfg.SearchURL = strings.TrimRight(cfg.SearchURL, "/")
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	cfg.FilesURL = strings.TrimRight(cfg.FilesURL, "/")

	c := &client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Search
// ─────────────────────────────────────────────────────────────────────────────

type queryNode struct {
	Type            string       `json:"type"`
	Service         string       `json:"service,omitempty"`
	LogicalOperator string       `json:"logical_operator,omitempty"`
	Parameters      *queryParams `json:"parameters,omitempty"`
	Nodes           []queryNode  `json:"nodes,omitempty"`
}

type queryParams struct {
	Value          string `json:"value"`
	Type           string `json:"type,omitempty"`
	DescriptorType string `json:"descriptor_type,omitempty"`
	MatchType      string `json:"match_type,omitempty"`
}

type searchRequest struct {
	Query          queryNode      `json:"query"`
	ReturnType     string         `json:"return_type"`
	RequestOptions requestOptions `json:"request_options"`
}

type requestOptions struct {
	ReturnAllHits bool `json:"return_all_hits"`
}

type searchResponse struct {
	TotalCount int `json:"total_count"`
	ResultSet  []struct {
		Identifier string  `json:"identifier"`
		Score      float64 `json:"score"`
	} `json:"result_set"`
}

// buildSearchRequest renders q as a search API request body.
func buildSearchRequest(q SearchQuery) searchRequest {
	text := queryNode{
		Type:       "terminal",
		Service:    "full_text",
		Parameters: &queryParams{Value: q.Text},
	}
	root := text
	if q.LigandSMILES != "" {
		root = queryNode{
			Type:            "group",
			LogicalOperator: "and",
			Nodes: []queryNode{text, {
				Type:    "terminal",
				Service: "chemical",
				Parameters: &queryParams{
					Value:          q.LigandSMILES,
					Type:           "descriptor",
					DescriptorType: "SMILES",
					MatchType:      "sub-struct-graph-relaxed",
				},
			}},
		}
	}
	return searchRequest{
		Query:          root,
		ReturnType:     "entry",
		RequestOptions: requestOptions{ReturnAllHits: true},
	}
}

// Search returns the codes of every entry matching q, in result order.
func (c *client) Search(ctx context.Context, q SearchQuery) ([]string, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, errors.InvalidParam("search text is required")
	}
	body, err := json.Marshal(buildSearchRequest(q))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "encode search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.SearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "build search request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		c.logger.Debug("search returned no hits", logging.String("query", q.Text))
		return nil, nil
	}
	if err := checkStatus(resp, "search"); err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "decode search response")
	}
	codes := make([]string, 0, len(sr.ResultSet))
	for _, r := range sr.ResultSet {
		codes = append(codes, r.Identifier)
	}
	c.logger.Debug("search completed",
		logging.String("query", q.Text),
		logging.Int("total", sr.TotalCount),
		logging.Int("returned", len(codes)))
	return codes, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Entry
// ─────────────────────────────────────────────────────────────────────────────

// Entry scrapes the structure summary page of code.
func (c *client) Entry(ctx context.Context, code string) (*Entry, error) {
	url := fmt.Sprintf("%s/structure/%s", c.config.SiteURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "build entry request")
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "entry "+code); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "parse entry page").WithDetail(code)
	}
	return parseEntry(code, doc), nil
}

func parseEntry(code string, doc *goquery.Document) *Entry {
	return &Entry{
		Code:           code,
		Title:          firstText(doc, "span#structureTitle"),
		Resolution:     cleanResolution(firstText(doc, "ul[id*=exp_header] li[id*=resolution]")),
		ReferenceTitle: firstText(doc, "div#primarycitation h4"),
		ReferenceDOI:   firstText(doc, "li#pubmedDOI a"),
	}
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// cleanResolution repairs the mis-decoded Ångström sign and stray
// non-breaking-space entities found in resolution strings.
func cleanResolution(s string) string {
	s = strings.ReplaceAll(s, "Ã…", "Å")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&nbsp", " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.TrimPrefix(strings.TrimSpace(s), "Resolution:")
	return strings.Join(strings.Fields(s), " ")
}

// ─────────────────────────────────────────────────────────────────────────────
// Download
// ─────────────────────────────────────────────────────────────────────────────

// Download streams the PDB-format file of code into w.
func (c *client) Download(ctx context.Context, code string, w io.Writer) (int64, error) {
	url := fmt.Sprintf("%s/download/%s.pdb", c.config.FilesURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "build download request")
	}

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "download "+code); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "download interrupted").WithDetail(code)
	}
	return n, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (c *client) do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "request failed").
			WithDetail(req.Method + " " + req.URL.String())
	}
	return resp, nil
}

func checkStatus(resp *http.Response, what string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errors.Newf(errors.ErrCodeDataSourceUnavailable, "%s failed with status: %d", what, resp.StatusCode).
		WithDetail(resp.Request.URL.String())
}

//Personal.AI order the ending
