package widget

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"
)

// DefaultPingTimeout bounds one liveness check end to end.
const DefaultPingTimeout = 5 * time.Second

// Pinger performs liveness checks against service URLs. Homelab
// services routinely sit behind self-signed certificates, so the client
// skips TLS verification: the check answers "is it up", not "is its
// certificate valid".
type Pinger struct {
	client *http.Client
}

// NewPinger builds a Pinger whose requests are bounded by timeout.
func NewPinger(timeout time.Duration) *Pinger {
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	return &Pinger{
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // liveness check only
			},
			Timeout: timeout,
		},
	}
}

// Check issues a HEAD request to url and returns the response status.
// Servers that do not implement HEAD answer 501; in that case exactly
// one fallback GET is sent to the same URL and its status is returned.
func (p *Pinger) Check(ctx context.Context, url string) (int, error) {
	status, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	if status == http.StatusNotImplemented {
		return p.do(ctx, http.MethodGet, url)
	}
	return status, nil
}

func (p *Pinger) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, &OutboundError{Op: "ping", Err: err}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, &OutboundError{Op: "ping", Err: err}
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
