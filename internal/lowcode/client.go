// Package lowcode is the HTTP transport for the REST low-code platform and
// the wire shapes of its records.
package lowcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mrlokans/dataadapter/internal/apperr"
)

const (
	// TokenHeader carries the static access token on every request.
	TokenHeader = "X-Access-Token"

	// UploadField is the multipart form field holding the uploaded file.
	UploadField = "file"

	maxErrorBody = 4 << 10
)

// RequestObserver is notified after every request. status is 0 on network failure.
type RequestObserver interface {
	ObserveRequest(method, endpoint string, status int, elapsed time.Duration)
}

// Client talks to the low-code platform REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	observer   RequestObserver
}

// NewClient creates a client for baseURL. A zero timeout means requests are
// bounded only by their context.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetObserver installs a request observer.
func (c *Client) SetObserver(o RequestObserver) {
	c.observer = o
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request; params with nil values are omitted from the query.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]any, out any) error {
	u, err := c.buildURL(endpoint, params)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodGet, endpoint, u, nil, "application/json", out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPost, endpoint, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.sendJSON(ctx, http.MethodPut, endpoint, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	u, err := c.buildURL(endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, endpoint, u, nil, "application/json", out)
}

// Upload posts content as a multipart form with the file under field "file".
func (c *Client) Upload(ctx context.Context, endpoint, fileName, contentType string, content io.Reader, out any) error {
	u, err := c.buildURL(endpoint, nil)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, escapeQuotes(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form part: %w", err)
	}
	if content != nil {
		if _, err := io.Copy(part, content); err != nil {
			return fmt.Errorf("failed to write form file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, endpoint, u, &buf, mw.FormDataContentType(), out)
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint string, body, out any) error {
	u, err := c.buildURL(endpoint, nil)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &apperr.DataError{Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}
	return c.do(ctx, method, endpoint, u, reader, "application/json", out)
}

func (c *Client) buildURL(endpoint string, params map[string]any) (string, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse URL %q: %v", apperr.ErrInvalidInput, c.baseURL+endpoint, err)
	}
	if len(params) == 0 {
		return u.String(), nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := u.Query()
	for _, k := range keys {
		v := params[k]
		if v == nil {
			continue
		}
		q.Add(k, fmt.Sprint(v))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, endpoint, rawURL string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(TokenHeader, c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, endpoint, 0, start)
		return &apperr.TransportError{Method: method, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	c.observe(method, endpoint, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperr.TransportError{
			Method:     method,
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.DataError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) observe(method, endpoint string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, endpoint, status, time.Since(start))
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
