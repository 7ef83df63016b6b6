// Package collaborators provides HTTP adapters for the supporting services
// the fulfillment core talks to: route optimization, inventory
// reconciliation, and feedback analysis. Each client runs its calls under a
// bounded per-call timeout.
package collaborators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/pkg/errs"
)

// httpClient is the shared request plumbing behind the collaborator adapters.
type httpClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func newHTTPClient(baseURL string, timeout time.Duration) (httpClient, error) {
	if baseURL == "" {
		return httpClient{}, errs.NewValueIsRequiredError("baseURL")
	}
	if timeout <= 0 {
		return httpClient{}, errs.NewValueIsInvalidErrorWithCause("timeout",
			fmt.Errorf("%s is not a positive duration", timeout))
	}

	return httpClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}, nil
}

// postJSON sends the request body and decodes the response into out when out
// is non-nil. Non-2xx responses are returned as errors.
func (c httpClient) postJSON(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
