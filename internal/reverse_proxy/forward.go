package reverse_proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/eagraf/porch/core/rules"
	"github.com/rs/zerolog/log"
)

const defaultDialTimeout = 10 * time.Second

// ProxyRule forwards matched requests to an upstream target. The response is
// streamed back to the caller as it arrives; connection-upgrade requests
// (e.g. websockets) pass through unaltered. A single forwarding attempt is
// made per request.
type ProxyRule struct {
	rule   rules.Rule
	target *url.URL
	proxy  *httputil.ReverseProxy
}

func newProxyRule(rule rules.Rule, errorPages *ErrorPages) (*ProxyRule, error) {
	target, err := parseUpstream(rule.Target)
	if err != nil {
		return nil, err
	}

	dialTimeout := rule.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = defaultDialTimeout
	}

	r := &ProxyRule{
		rule:   rule,
		target: target,
	}
	r.proxy = &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = target.Scheme
			req.URL.Host = target.Host
			req.URL.Path = singleJoiningSlash(target.Path, rule.StripPrefix(req.URL.Path))
			if !rule.PreserveHost {
				req.Host = target.Host
			}
		},
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: dialTimeout,
			}).DialContext,
			ResponseHeaderTimeout: rule.ResponseHeaderTimeout,
		},
		// Flush response bytes to the client as they arrive, so long-lived
		// streamed responses are not buffered.
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			if errors.Is(err, context.Canceled) {
				// The client went away; there is nothing left to write to.
				return
			}
			classified := classifyUpstreamError(err)
			log.Error().Err(classified).Str("rule", rule.ID).Str("target", rule.Target).Msg("upstream request failed")
			errorPages.Serve(w, statusForError(classified))
		},
	}
	return r, nil
}

func (r *ProxyRule) Rule() rules.Rule {
	return r.rule
}

func (r *ProxyRule) Match(url *url.URL) bool {
	return r.rule.Match(url.Path)
}

func (r *ProxyRule) Handler() http.Handler {
	return r.proxy
}

// parseUpstream accepts either a full URL or a bare host:port pair, which is
// addressed over plain HTTP.
func parseUpstream(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		u, err = url.Parse("http://" + target)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing upstream target %q: %w", target, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("upstream target %q has no host", target)
	}
	return u, nil
}

// classifyUpstreamError maps a transport failure onto the error taxonomy.
// Timeouts become 504s and everything else a 502.
func classifyUpstreamError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrUpstreamTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %s", ErrUpstreamTimeout, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: %s", ErrUpstreamUnreachable, err)
	default:
		return fmt.Errorf("%w: %s", ErrUpstreamUnreachable, err)
	}
}

func singleJoiningSlash(a, b string) string {
	aslash := strings.HasSuffix(a, "/")
	bslash := strings.HasPrefix(b, "/")
	switch {
	case aslash && bslash:
		return a + b[1:]
	case !aslash && !bslash:
		return a + "/" + b
	}
	return a + b
}
