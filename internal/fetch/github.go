// Package fetch retrieves baseline and report JSON documents from their
// remote location (a GitHub repository or any HTTP host serving the raw
// files). It is an I/O wrapper only: everything it returns has already been
// validated by the ingest package, and the engine never does I/O itself.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"seguimiento/internal/ingest"
	"seguimiento/internal/track"
)

// Config holds the remote source locations. Token is optional and only
// raises the GitHub API rate limit; public data needs none.
type Config struct {
	BaselineURL string
	ReportsURL  string
	Token       string
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// contentsEntry is the subset of a GitHub contents API listing element we
// need to find the report files.
type contentsEntry struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// Result is one remote refresh: the validated baseline, every report
// snapshot that passed validation, and the names of report files that were
// rejected (with their reasons logged, the stores untouched by them).
type Result struct {
	Baseline  []track.BaselineItem
	Snapshots []track.ReportSnapshot
	Rejected  []string
}

// Remote fetches the baseline and, when configured, the report directory
// listing plus every report file. Report files are fetched concurrently;
// the returned snapshot order is the listing's name order, so re-running a
// refresh is deterministic.
func Remote(cfg Config) (Result, error) {
	if cfg.BaselineURL == "" {
		return Result{}, fmt.Errorf("no baseline URL configured")
	}

	var result Result

	body, err := getJSON(cfg.BaselineURL, cfg.Token)
	if err != nil {
		return Result{}, fmt.Errorf("fetching baseline: %w", err)
	}
	baseline, err := ingest.ParseBaseline(body)
	if err != nil {
		return Result{}, fmt.Errorf("baseline rejected: %w", err)
	}
	result.Baseline = baseline
	log.Debug().Int("items", len(baseline)).Msg("Baseline fetched")

	if cfg.ReportsURL == "" {
		return result, nil
	}

	entries, err := listReports(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("listing reports: %w", err)
	}

	snapshots := make([]*track.ReportSnapshot, len(entries))
	rejected := make([]string, len(entries))

	var g errgroup.Group
	g.SetLimit(4)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			body, err := getJSON(entry.DownloadURL, cfg.Token)
			if err != nil {
				return fmt.Errorf("fetching report %s: %w", entry.Name, err)
			}
			parsed, err := ingest.ParseReport(body)
			if err != nil {
				// A structurally invalid report never reaches the store;
				// it does not abort the rest of the refresh either.
				log.Warn().Err(err).Str("file", entry.Name).Msg("Report rejected")
				rejected[i] = entry.Name
				return nil
			}
			if parsed.SinClave > 0 {
				log.Debug().Str("file", entry.Name).Int("sinClave", parsed.SinClave).
					Msg("Registros without Correlativo or Id dropped")
			}
			snapshots[i] = &parsed.Snapshot
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	for i := range entries {
		if snapshots[i] != nil {
			result.Snapshots = append(result.Snapshots, *snapshots[i])
		}
		if rejected[i] != "" {
			result.Rejected = append(result.Rejected, rejected[i])
		}
	}
	return result, nil
}

// listReports resolves the report directory into fetchable entries. The URL
// may point at a GitHub contents API directory or at any endpoint serving
// the same listing shape.
func listReports(cfg Config) ([]contentsEntry, error) {
	body, err := getJSON(cfg.ReportsURL, cfg.Token)
	if err != nil {
		return nil, err
	}

	var entries []contentsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parsing directory listing: %w", err)
	}

	var reports []contentsEntry
	for _, e := range entries {
		if e.Type != "" && e.Type != "file" {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name), ".json") || e.DownloadURL == "" {
			continue
		}
		reports = append(reports, e)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Name < reports[j].Name })
	return reports, nil
}

func getJSON(url, token string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("remote returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
