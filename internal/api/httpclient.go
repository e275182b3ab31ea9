package api

import (
	"net"
	"net/http"
	"time"
)

// newHTTPClient creates an HTTP client tuned for the rental service: short
// dial and header timeouts so a dead network surfaces quickly during status
// polling, with connection reuse across the poll loop.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   5,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
