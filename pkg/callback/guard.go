package callback

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
)

const logPrefix = "callback:guard"

// DefaultAllowedIPs is the vendor's callback source address.
var DefaultAllowedIPs = []string{"196.216.236.2"}

// ErrForbidden is returned when a callback comes from an address outside the
// allow-list.
var ErrForbidden = errors.New("callback: source address not allowed")

// Guard restricts callbacks to an IP allow-list. A Guard with no entries
// allows every address.
type Guard struct {
	ips  []net.IP
	nets []*net.IPNet
}

// NewGuard builds a Guard from addresses or CIDR ranges.
func NewGuard(entries ...string) (*Guard, error) {
	g := &Guard{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			_, n, err := net.ParseCIDR(e)
			if err != nil {
				return nil, fmt.Errorf("%s - failed to parse range %q: %w", logPrefix, e, err)
			}
			g.nets = append(g.nets, n)
			continue
		}
		ip := net.ParseIP(e)
		if ip == nil {
			return nil, fmt.Errorf("%s - invalid address %q", logPrefix, e)
		}
		g.ips = append(g.ips, ip)
	}
	return g, nil
}

// Enabled reports whether the guard restricts anything.
func (g *Guard) Enabled() bool {
	return g != nil && (len(g.ips) > 0 || len(g.nets) > 0)
}

// Check returns ErrForbidden unless addr is allowed. addr may carry a port.
func (g *Guard) Check(addr string) error {
	if !g.Enabled() {
		return nil
	}
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	ip := net.ParseIP(host)
	if ip != nil {
		for _, allowed := range g.ips {
			if allowed.Equal(ip) {
				return nil
			}
		}
		for _, n := range g.nets {
			if n.Contains(ip) {
				return nil
			}
		}
	}
	slog.Warn(fmt.Sprintf("%s - rejected callback from %s", logPrefix, addr))
	return ErrForbidden
}
