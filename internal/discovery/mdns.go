// Package discovery finds lamps on the local network via mDNS.
//
// The lamp firmware advertises a plain "_http._tcp" service under a
// hostname of the form "smartlamp-<serial>.local"; anything else on the
// network answering that service type is filtered out.
package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// ServiceType is the mDNS service type lamps advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for lamp discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is the default HTTP port for lamps
	DefaultPort = 80
)

// serialPattern matches lamp hostnames (e.g. "smartlamp-A1B2C3.local")
var serialPattern = regexp.MustCompile(`^smartlamp-([0-9A-Fa-f]+)\.local\.?$`)

// Scanner handles mDNS lamp discovery
type Scanner struct {
	// Timeout is the maximum time to wait for lamp discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForLamps discovers all lamps on the local network
func (s *Scanner) ScanForLamps() ([]*Lamp, error) {
	return s.ScanForLampsWithContext(context.Background())
}

// ScanForLampsWithContext discovers lamps with a custom context
func (s *Scanner) ScanForLampsWithContext(ctx context.Context) ([]*Lamp, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	results := s.collectLamps(entries)

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Wait for timeout or cancellation, then for the collector to drain
	// whatever the resolver delivered before closing the channel
	<-ctx.Done()
	return <-results, nil
}

// collectLamps drains service entries into a lamp list. The result is
// delivered only after the entries channel closes, so a caller that reads
// it never races the collector.
func (s *Scanner) collectLamps(entries <-chan *zeroconf.ServiceEntry) <-chan []*Lamp {
	results := make(chan []*Lamp, 1)

	go func() {
		lamps := make([]*Lamp, 0)
		for entry := range entries {
			if lamp := s.parseServiceEntry(entry); lamp != nil {
				lamps = append(lamps, lamp)
			}
		}
		results <- lamps
	}()

	return results
}

// parseServiceEntry converts a zeroconf service entry to a Lamp.
// Returns nil if the entry is not a lamp.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Lamp {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	matches := serialPattern.FindStringSubmatch(hostname)
	if len(matches) < 2 {
		return nil
	}

	serial := strings.ToUpper(matches[1])

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Lamp{
		Serial:       serial,
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForLamps is a convenience function to scan with a custom timeout
func ScanForLamps(timeout time.Duration) ([]*Lamp, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForLamps()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Lamp, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForLamps()
}
