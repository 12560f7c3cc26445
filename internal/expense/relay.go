package expense

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Relay forwards a confirmed receipt to the configured external form.
//
// The target endpoint never exposes its response to cross-origin callers, so
// the relay treats the response as opaque: status code and body are ignored,
// and only a transport-level error counts as failure. "Sent" therefore means
// the request left without error, not that the server recorded it. This is a
// limitation of the external endpoint, not something to fix here.
type Relay struct {
	client *http.Client
}

// NewRelay creates a new Relay instance
func NewRelay() *Relay {
	return NewRelayWithClient(&http.Client{Timeout: 30 * time.Second})
}

// NewRelayWithClient creates a new Relay with a custom HTTP client for
// testing
func NewRelayWithClient(client *http.Client) *Relay {
	return &Relay{client: client}
}

// submissionURL rewrites the human-facing form URL into its submission
// endpoint.
func submissionURL(formURL string) string {
	return strings.Replace(formURL, "/viewform", "/formResponse", 1)
}

// Send posts the receipt's fields to the form using the configured field
// identifier mapping. Absent values become empty strings.
func (r *Relay) Send(config FormConfig, receipt Receipt) error {
	if config.FormURL == "" {
		return fmt.Errorf("form URL is not configured")
	}

	config = config.Normalize()
	payload := url.Values{}
	payload.Set(config.Fields.Amount, fmt.Sprintf("%v", receipt.Amount))
	payload.Set(config.Fields.Date, receipt.Date)
	payload.Set(config.Fields.Vendor, receipt.Vendor)
	payload.Set(config.Fields.Category, receipt.Category)
	payload.Set(config.Fields.Description, receipt.Description)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "POST", submissionURL(config.FormURL), strings.NewReader(payload.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to form: %w", err)
	}
	// Response is opaque; success is the absence of a transport error.
	resp.Body.Close()

	return nil
}
