package webhooks

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"magnetlab_backend/platform/apperr"
)

const msgInternalTarget = "webhook URL must point at a public host"

var errInternalTarget = errors.New("webhook target resolves to an internal address")

// Ranges the Is* helpers on netip.Addr do not cover.
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("64:ff9b::/96"), // NAT64 can reach IPv4 internals
}

func isInternalAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsMulticast() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return true
	}
	for _, prefix := range blockedPrefixes {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}

// ValidateTargetURL rejects localhost names and literal internal addresses.
// Names that resolve internally are caught when the deliverer dials.
func ValidateTargetURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return apperr.Validation("invalid webhook URL")
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return apperr.Validation(msgInternalTarget)
	}
	if ip, err := netip.ParseAddr(host); err == nil && isInternalAddr(ip) {
		return apperr.Validation(msgInternalTarget)
	}
	return nil
}

// newGuardedClient checks every resolved address at connect time, including
// redirect hops, so DNS answers cannot steer deliveries inward.
func newGuardedClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout: timeout,
		Control: func(_, address string, _ syscall.RawConn) error {
			addrPort, err := netip.ParseAddrPort(address)
			if err != nil {
				return fmt.Errorf("%w: %s", errInternalTarget, address)
			}
			if isInternalAddr(addrPort.Addr()) {
				return fmt.Errorf("%w: %s", errInternalTarget, addrPort.Addr())
			}
			return nil
		},
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			ForceAttemptHTTP2:   true,
			TLSHandshakeTimeout: timeout,
			MaxIdleConns:        20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
