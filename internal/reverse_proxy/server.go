package reverse_proxy

import (
	"net"
	"net/http"

	"github.com/eagraf/porch/internal/config"
	"github.com/rs/zerolog"

	"tailscale.com/tsnet"
)

// ProxyServer dispatches every inbound request to the first matching rule in
// its rule set. It implements http.Handler so callers own the http.Server and
// its lifecycle.
type ProxyServer struct {
	logger  *zerolog.Logger
	config  *config.Config
	RuleSet *RuleSet
}

func NewProxyServer(logger *zerolog.Logger, config *config.Config, ruleSet *RuleSet) *ProxyServer {
	return &ProxyServer{
		logger:  logger,
		config:  config,
		RuleSet: ruleSet,
	}
}

func (s *ProxyServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	match := s.RuleSet.Match(r.URL)
	if match == nil {
		// Unreachable with a validated rule set, which always carries a
		// fallback rule. Programmatically assembled sets may omit one.
		w.WriteHeader(http.StatusNotFound)
		return
	}
	match.Handler().ServeHTTP(w, r)
}

// Listener returns the listener the proxy should serve on. If TS_AUTHKEY is
// set, a tsnet listener joins the tailnet instead of binding a local TCP port.
func (s *ProxyServer) Listener(addr string) (net.Listener, error) {
	if s.config == nil || s.config.TailscaleAuthkey() == "" {
		return net.Listen("tcp", addr)
	}

	ts := &tsnet.Server{
		Hostname: s.config.Hostname(),
		Dir:      s.config.TailscaleStatePath(),
		Logf: func(msg string, args ...any) {
			s.logger.Debug().Msgf(msg, args...)
		},
	}

	if s.config.TailscaleFunnelEnabled() {
		return ts.ListenFunnel("tcp", addr)
	}
	return ts.Listen("tcp", addr)
}
