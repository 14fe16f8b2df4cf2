// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

const userAgent = "lead-intelligence/1.0"

// Doer is satisfied by *http.Client and by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the outbound HTTP client shared by the CRM and LLM integrations.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Do sends the request, stamping a User-Agent when the caller did not set one.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return c.httpClient.Do(req)
}
