package utils

import (
	"net/http"
	"net/netip"
	"strings"
)

// hostOnly strips an optional port from "ip:port" or "[v6]:port" forms.
func hostOnly(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().String()
	}
	return s
}

// ClientIP resolves the client address of a request.
//
// With trustProxy the proxy headers are consulted first (CF-Connecting-IP,
// the left-most X-Forwarded-For entry, then X-Real-IP); these headers are
// trivially spoofable, so they must only be trusted when the server is
// reachable exclusively through the proxy that sets them. Without
// trustProxy only RemoteAddr is used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		candidates := []string{
			r.Header.Get("CF-Connecting-IP"),
			firstForwarded(r.Header.Get("X-Forwarded-For")),
			r.Header.Get("X-Real-IP"),
		}
		for _, c := range candidates {
			if ip := hostOnly(c); ip != "" {
				return ip
			}
		}
	}
	return hostOnly(r.RemoteAddr)
}

func firstForwarded(xff string) string {
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}

// IPMatcher answers membership for a mixed list of plain IPs and CIDRs.
// Entries that fail to parse are dropped silently; a plain IP becomes a
// single-address prefix so everything matches through one code path.
type IPMatcher struct {
	prefixes []netip.Prefix
}

func NewIPMatcher(list []string) *IPMatcher {
	m := &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(s); err == nil {
			m.prefixes = append(m.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return m
}

func (m *IPMatcher) IsEmpty() bool { return len(m.prefixes) == 0 }

func (m *IPMatcher) Allow(ipStr string) bool {
	addr, err := netip.ParseAddr(ipStr)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
