// Package httpclient provides basic http functions
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// TransportError is returned when a request could not be completed at the network level,
// as opposed to the server answering with a non-success status
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client performs GET requests with a fixed header set
type Client struct {
	httpClient *http.Client
	headers    http.Header
}

// NewClient creates a Client sending headers on every request. A timeout of zero waits forever.
func NewClient(timeout time.Duration, headers http.Header) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		headers:    headers.Clone(),
	}
}

// DownloadedFile contains information about a response that has been downloaded to the local file system
type DownloadedFile struct {
	StatusCode    int
	LocalFilePath string
	Size          int64
	DownloadedAt  time.Time
}

// Success returns true when the response was written to LocalFilePath
func (d *DownloadedFile) Success() bool {
	return d.StatusCode == http.StatusOK
}

// DownloadRemoteFile retrieves url and, only when the server answers 200, writes the body verbatim to
// destinationFileName. The body is written to a temporary file first so destinationFileName never holds
// a partial response. Network failures, including failures reading the body, are returned as *TransportError
func (c *Client) DownloadRemoteFile(ctx context.Context, destinationFileName string, url string) (*DownloadedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	result := DownloadedFile{
		StatusCode:   resp.StatusCode,
		DownloadedAt: time.Now(),
	}
	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &result, nil
	}

	tmpFileName := destinationFileName + ".tmp"
	out, err := os.Create(tmpFileName)
	if err != nil {
		return nil, err
	}
	bytesWritten, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err != nil {
		_ = os.Remove(tmpFileName)
		return nil, &TransportError{URL: url, Err: err}
	}
	if closeErr != nil {
		_ = os.Remove(tmpFileName)
		return nil, closeErr
	}
	if err = os.Rename(tmpFileName, destinationFileName); err != nil {
		_ = os.Remove(tmpFileName)
		return nil, err
	}
	result.LocalFilePath = destinationFileName
	result.Size = bytesWritten
	return &result, nil
}
