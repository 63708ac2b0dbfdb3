// Package verification calls the external web-verification collaborator and
// degrades to a neutral result when it is unreachable.
package verification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/logging"
)

// NeutralScore is returned whenever verification cannot run: unreachable
// service, timeout, bad response. It must never surface as an error to the
// request path.
const NeutralScore = 75

// Client is the HTTP web-verification collaborator. An empty URL disables
// verification entirely.
type Client struct {
	url        string
	httpClient *http.Client
}

var _ interfaces.Verifier = (*Client)(nil)

// NewClient creates a verification client with the given endpoint and
// per-call timeout.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type verifyRequest struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// Verify posts the query/answer pair to the verification service. Every
// failure mode degrades to the neutral result with a warning log.
func (c *Client) Verify(ctx context.Context, query, answer string) interfaces.VerificationResult {
	neutral := interfaces.VerificationResult{
		Score:       NeutralScore,
		Explanation: "verification unavailable",
	}

	if c.url == "" {
		return neutral
	}

	payload, err := json.Marshal(verifyRequest{Query: query, Answer: answer})
	if err != nil {
		logging.Warn("Failed to encode verification request", "error", err)
		return neutral
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		logging.Warn("Failed to build verification request", "error", err)
		return neutral
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn("Verification service unreachable", "error", err)
		return neutral
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Warn("Verification service returned non-200", "status", resp.StatusCode)
		return neutral
	}

	var result interfaces.VerificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logging.Warn("Failed to decode verification response", "error", err)
		return neutral
	}

	if result.Score < 0 || result.Score > 100 {
		logging.Warn("Verification score out of range, using neutral default",
			"score", result.Score)
		return neutral
	}

	return result
}

// String describes the client configuration for startup logging.
func (c *Client) String() string {
	if c.url == "" {
		return "verification disabled"
	}
	return fmt.Sprintf("verification via %s", c.url)
}
