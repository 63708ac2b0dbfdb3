// Package history forwards analysis records to the history-logging
// collaborator. Failures never surface to the request path.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/logging"
)

// HTTPSink posts each analysis record to an external history service.
type HTTPSink struct {
	url        string
	httpClient *http.Client
}

var _ interfaces.HistorySink = (*HTTPSink)(nil)

// NewHTTPSink creates a sink posting to the given endpoint with a per-call
// timeout.
func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Record posts the entry. Errors are logged and swallowed.
func (s *HTTPSink) Record(ctx context.Context, entry interfaces.HistoryEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		logging.Warn("Failed to encode history entry", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		logging.Warn("Failed to build history request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logging.Warn("History service unreachable", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		logging.Warn("History service rejected entry", "status", resp.StatusCode)
	}
}

// LogSink records entries on the application log only. It is the default
// when no history endpoint is configured.
type LogSink struct{}

var _ interfaces.HistorySink = LogSink{}

// Record logs a summary of the entry.
func (LogSink) Record(_ context.Context, entry interfaces.HistoryEntry) {
	logging.Info("Analysis recorded",
		"drugs", entry.Drugs,
		"foods", entry.Foods,
		"findings", len(entry.Findings),
		"confidence_score", entry.ConfidenceScore,
		"confidence_label", entry.ConfidenceLabel,
	)
}
