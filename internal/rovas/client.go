package rovas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the Rovas proxy-rules endpoint prefix.
	DefaultBaseURL = "https://rovas.app/rovas/rules"

	workReportPath = "/rules_proxy_create_work_report"
	usageFeePath   = "/rules_proxy_create_aur"

	requestTimeout = 30 * time.Second
)

// Client submits work reports and usage fees to the Rovas accounting
// service.
type Client interface {
	// CreateWorkReport posts a work report. A non-2xx status returns a
	// *StatusError; a 2xx body without a created id returns a result with
	// ReportID 0 and no error.
	CreateWorkReport(ctx context.Context, creds Credentials, p WorkReportPayload) (*WorkReportResult, error)

	// CreateUsageFee posts the dependent fee charge. The response body is
	// ignored beyond status checking.
	CreateUsageFee(ctx context.Context, creds Credentials, p UsageFeePayload) error
}

// httpClient implements Client over the Rovas HTTP API.
type httpClient struct {
	baseURL  string
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, observer Observer) Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) CreateWorkReport(ctx context.Context, creds Credentials, p WorkReportPayload) (*WorkReportResult, error) {
	start := time.Now()

	status, body, err := c.post(ctx, workReportPath, creds, p)
	event := APICallEvent{
		Operation:  "create_work_report",
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
	}

	if err != nil {
		event.Err = err.Error()
		c.observer.OnCallComplete(event)
		return nil, err
	}

	event.Success = true
	c.observer.OnCallComplete(event)

	return &WorkReportResult{
		ReportID: parseReportID(body),
		RawBody:  string(body),
	}, nil
}

func (c *httpClient) CreateUsageFee(ctx context.Context, creds Credentials, p UsageFeePayload) error {
	start := time.Now()

	status, _, err := c.post(ctx, usageFeePath, creds, p)
	event := APICallEvent{
		Operation:  "create_usage_fee",
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
	}
	if err != nil {
		event.Err = err.Error()
	}
	c.observer.OnCallComplete(event)
	return err
}

// post sends a JSON body with the Rovas auth headers and returns the status
// code and raw response body. Non-2xx statuses become a *StatusError.
func (c *httpClient) post(ctx context.Context, path string, creds Credentials, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("API-KEY", creds.APIKey)
	req.Header.Set("TOKEN", creds.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp.StatusCode, body, nil
}

// parseReportID extracts created_wr_nid from a success body, tolerating both
// numeric and string encodings. Returns 0 when absent or unparseable.
func parseReportID(body []byte) int64 {
	var resp struct {
		CreatedID json.RawMessage `json:"created_wr_nid"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.CreatedID) == 0 {
		return 0
	}

	var n int64
	if err := json.Unmarshal(resp.CreatedID, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(resp.CreatedID, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
