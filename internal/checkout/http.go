package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cdegbert/pinecrest-robotics-fundraiser/internal/models"
)

// HTTPSink POSTs the order JSON to a fixed external endpoint (a
// spreadsheet-backed collector in the reference deployment). The response
// status is not inspected: the only observable outcome is "request threw"
// vs "did not throw", and the Receipt says no more than that.
type HTTPSink struct {
	URL    string
	Client *http.Client
}

func NewHTTPSink(endpoint string) *HTTPSink {
	return &HTTPSink{
		URL:    endpoint,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HTTPSink) Deliver(ctx context.Context, order *models.Order) (*Receipt, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post order: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return &Receipt{
		Sink:         "http",
		Acknowledged: true,
	}, nil
}
