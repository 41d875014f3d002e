// Package remote provides the HTTP client for the climate-map processing service
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	perr "mapaclim/internal/platform/errors"
	"mapaclim/internal/platform/logger"
	"mapaclim/internal/services/upload/domain"
)

// ProcessPath is the fixed processing endpoint path on every backend
const ProcessPath = "/api/procesar/"

// Options configures the Client
type Options struct {
	// UserAgent defaults to "mapaclim"
	UserAgent string
}

// Client submits document+geometry pairs to a processing backend.
// The base URL is passed per call so a settings change between submissions
// takes effect without rebuilding the client
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client.
// No request deadline is enforced: a submission runs to completion or
// transport failure, matching the explicit-resubmit error model
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = "mapaclim"
	}
	return &Client{
		http: &http.Client{},
		opts: o,
		log:  *logger.Named("remote"),
	}
}

// EndpointFor joins a base URL and the processing path without doubling the separator
func EndpointFor(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + ProcessPath
}

// Process implements domain.ProcessorPort.
// Success is any 2xx with the image bytes in the body. A non-2xx is reported
// with the server's detail field when the body parses, the HTTP status text
// otherwise; both carry the attempted endpoint
func (c *Client) Process(ctx context.Context, baseURL, documentPath, geometryPath string) ([]byte, string, error) {
	endpoint := EndpointFor(baseURL)

	body, contentType, err := buildForm(documentPath, geometryPath)
	if err != nil {
		return nil, endpoint, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, endpoint, perr.Wrapf(err, perr.ErrorCodeUnknown, "build request for %s", endpoint)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.opts.UserAgent)

	c.log.Debug().Str("endpoint", endpoint).Msg("submitting")

	resp, err := c.http.Do(req)
	if err != nil {
		// unwrap url.Error noise so the surfaced message reads cleanly
		return nil, endpoint, perr.Networkf("%v (endpoint %s)", perr.Root(err), endpoint)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, endpoint, perr.Servicef("%s (endpoint %s)", detailOf(resp), endpoint)
	}

	png, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, endpoint, perr.Networkf("read response: %v (endpoint %s)", err, endpoint)
	}
	return png, endpoint, nil
}

// buildForm assembles the two-part multipart body the service expects
func buildForm(documentPath, geometryPath string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	parts := []struct {
		role domain.Role
		path string
	}{
		{domain.RoleDocument, documentPath},
		{domain.RoleGeometry, geometryPath},
	}
	for _, p := range parts {
		if err := writePart(w, p.role.PartName(), p.path); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", perr.Wrapf(err, perr.ErrorCodeUnknown, "finalize form")
	}
	return &buf, w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "open %s file", field)
	}
	defer func() { _ = f.Close() }()

	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "create %s part", field)
	}
	if _, err := io.Copy(part, f); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "copy %s part", field)
	}
	return nil
}

// detailOf extracts the server's detail message, falling back to the HTTP
// status text when the body is absent or malformed
func detailOf(resp *http.Response) string {
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(b) > 0 {
		var d perr.Detail
		if jerr := json.Unmarshal(b, &d); jerr == nil && d.Detail != "" {
			return d.Detail
		}
	}
	return http.StatusText(resp.StatusCode)
}

var _ domain.ProcessorPort = (*Client)(nil)
