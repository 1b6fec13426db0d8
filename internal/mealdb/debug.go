package mealdb

import (
	"net/http"
	"time"

	"github.com/hammamikhairi/recipebox/internal/logger"
)

// debugTransport logs each catalog request and its outcome. Enabled with
// RECIPEBOX_HTTP_DEBUG=true; the catalog carries no credentials, so URLs are
// logged as-is.
type debugTransport struct {
	base http.RoundTripper
	log  *logger.Logger
}

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	dt.log.Debug("http: %s %s", req.Method, req.URL.String())

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		dt.log.Debug("http: %s %s failed after %s: %v", req.Method, req.URL.String(), time.Since(start), err)
		return nil, err
	}

	dt.log.Debug("http: %s %s -> %d (%s, %d bytes)", req.Method, req.URL.String(), resp.StatusCode, time.Since(start).Round(time.Millisecond), resp.ContentLength)
	return resp, nil
}
