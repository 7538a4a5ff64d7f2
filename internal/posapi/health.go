package posapi

import (
	"context"
	"net/http"
	"strings"
)

// Ping checks the server's health endpoint, which lives at the server root
// rather than under the API prefix.
func (c *Client) Ping(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api")
	return c.doURL(ctx, root+"/health", request{method: http.MethodGet, path: "/health"}, nil)
}
