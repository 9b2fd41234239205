package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DocumentClient checks and downloads remote PDF datasheets.
type DocumentClient interface {
	Exists(ctx context.Context, url string) (bool, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

type documentClient struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewDocumentClient(insecureTLS bool, timeout time.Duration) DocumentClient {
	return &documentClient{
		httpClient: newHTTPClient(insecureTLS, timeout),
		maxBytes:   64 << 20,
	}
}

func (c *documentClient) Exists(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "PMDash/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func (c *documentClient) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "PMDash/1.0")
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", url, c.maxBytes)
	}
	return data, nil
}
