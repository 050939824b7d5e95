package pkg

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies holds the addresses of reverse proxies allowed to report the client IP
// in the X-Real-Ip and X-Forwarded-For headers.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts single IPs and CIDR ranges.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %s: %w", entry, err)
			}
			proxies = append(proxies, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %s: %w", entry, err)
		}
		addr = addr.Unmap()
		proxies = append(proxies, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return proxies, nil
}

func (p TrustedProxies) Contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ReadUserIP returns the client IP. Proxy headers are only used when the request
// comes from a trusted proxy; the remote address is used otherwise.
func ReadUserIP(r *http.Request, trustedProxies TrustedProxies) (string, error) {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = host
	}
	remoteAddr, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return "", fmt.Errorf("ip addr %s is invalid", remoteIP)
	}

	if !trustedProxies.Contains(remoteAddr) {
		return remoteAddr.Unmap().String(), nil
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); err == nil {
		return realIP.Unmap().String(), nil
	}

	// entries are appended by each proxy, the first untrusted one from the right is the client
	forwarded := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(forwarded) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(forwarded[i]))
		if err != nil {
			break
		}
		if !trustedProxies.Contains(addr) {
			return addr.Unmap().String(), nil
		}
	}

	return remoteAddr.Unmap().String(), nil
}
