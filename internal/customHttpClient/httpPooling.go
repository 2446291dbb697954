package customHttpClient

import (
	"net/http"
	"time"

	"github.com/fgiraldo/ragapi/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// GetPooledClient returns an http.Client sharing the process-wide pooled
// transport so repeated calls to the same host reuse connections.
func GetPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
