package system

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Logger interface for system checkers
type Logger interface {
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

// NetworkChecker checks that the store backend answers
type NetworkChecker struct {
	logger Logger
	client *http.Client
}

// NewNetworkChecker creates a new network checker. A nil client gets
// short dial and handshake timeouts.
func NewNetworkChecker(logger Logger, client *http.Client) *NetworkChecker {
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
			},
		}
	}
	return &NetworkChecker{
		logger: logger,
		client: client,
	}
}

// NetworkStatus represents the result of one backend check
type NetworkStatus struct {
	URL        string        `json:"url"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	ErrorType  string        `json:"error_type,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// CheckBackend sends a GET to url with the given headers. Any HTTP response below
// 500 counts as reachable; the backend answers unknown paths with 404.
func (nc *NetworkChecker) CheckBackend(ctx context.Context, url string, header http.Header) *NetworkStatus {
	status := &NetworkStatus{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		status.Error = fmt.Sprintf("failed to create request: %v", err)
		status.ErrorType = "invalid_url"
		return status
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	if nc.logger != nil {
		nc.logger.Debug("Probing %s", url)
	}

	start := time.Now()
	resp, err := nc.client.Do(req)
	if err != nil {
		status.Error = err.Error()
		status.ErrorType = categorizeNetworkError(err)
		if nc.logger != nil {
			nc.logger.Warn("Request to %s failed (%s): %v", url, status.ErrorType, err)
		}
		return status
	}
	defer resp.Body.Close()

	status.Latency = time.Since(start)
	status.StatusCode = resp.StatusCode
	if resp.StatusCode < http.StatusInternalServerError {
		status.Reachable = true
	} else {
		status.ErrorType = "server_error"
		status.Error = fmt.Sprintf("server returned %s", resp.Status)
	}
	return status
}

// categorizeNetworkError buckets transport failures for hints
func categorizeNetworkError(err error) string {
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "context canceled"):
		return "cancelled"
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "timeout"
	case strings.Contains(errStr, "connection refused"):
		return "connection_refused"
	case strings.Contains(errStr, "no such host"):
		return "dns_failure"
	case strings.Contains(errStr, "network is unreachable"), strings.Contains(errStr, "network unreachable"):
		return "network_unreachable"
	case strings.Contains(errStr, "certificate"), strings.Contains(errStr, "x509"):
		return "tls_certificate_error"
	case strings.Contains(errStr, "proxy"):
		return "proxy_error"
	default:
		return "unknown"
	}
}
