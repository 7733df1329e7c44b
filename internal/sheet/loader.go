// Package sheet loads the remote spreadsheet snapshot that feeds the
// dashboard pipeline. The source is a read-only CSV export fetched fresh on
// every load; a TTL-bounded cache can be layered on top to absorb trivial UI
// interactions.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"salespulse/pkg/contracts/domain"
)

// fetchTimeout bounds the single best-effort snapshot fetch. There is no
// retry and no backoff; a slow source degrades to a "no data" dashboard.
const fetchTimeout = 30 * time.Second

// Loader fetches the sheet's CSV export and parses it into a raw table.
type Loader struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewLoader creates a loader for the given CSV export URL. A nil client
// falls back to a default client with the standard fetch timeout.
func NewLoader(url string, client *http.Client, logger *slog.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		url:    url,
		client: client,
		logger: logger.With(slog.String("component", "sheet_loader")),
	}
}

// Load fetches the current snapshot. It is fail-soft by contract: any
// network, HTTP or CSV failure is logged and an empty table is returned, so
// the rest of the pipeline renders a "no data" state instead of crashing.
func (l *Loader) Load(ctx context.Context) domain.Table {
	table, err := l.fetch(ctx)
	if err != nil {
		l.logger.WarnContext(ctx, "sheet fetch failed, serving empty snapshot",
			slog.String("url", l.url),
			slog.String("error", err.Error()))
		fetchFailures.Inc()
		return domain.Table{}
	}

	l.logger.InfoContext(ctx, "sheet snapshot loaded",
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Records)))
	return table
}

// fetch performs one unauthenticated GET and parses the body as CSV.
func (l *Loader) fetch(ctx context.Context) (domain.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.Table{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return domain.Table{}, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Table{}, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	// The sheet is hand-maintained; tolerate ragged rows.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return domain.Table{}, nil
	}

	return tableFromRows(rows), nil
}

// tableFromRows builds a raw table from parsed CSV rows. The first row is
// the header; cells beyond the header width are dropped and short rows leave
// their trailing cells absent.
func tableFromRows(rows [][]string) domain.Table {
	header := rows[0]
	table := domain.Table{Columns: header}

	for _, row := range rows[1:] {
		cells := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				cells[name] = row[i]
			}
		}
		table.Records = append(table.Records, domain.Record{Cells: cells})
	}
	return table
}
