package constants

const (
	Version = "v0.1.0"

	DefaultPortReverseProxy = "8080"
	DefaultPortAdminAPI     = "8081"

	// Tailscale funnel only forwards 443, 8443 and 10000.
	PortReverseProxyTSFunnel = "443"
)
