package discovery

import (
	"fmt"
	"time"
)

// Lamp represents a discovered lamp on the network
type Lamp struct {
	// Serial is the lamp serial number from its hostname (e.g. "A1B2C3")
	Serial string

	// Hostname is the mDNS hostname (e.g. "smartlamp-A1B2C3.local")
	Hostname string

	// IP is the IPv4 address (e.g. "192.168.1.100")
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the lamp was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the lamp
func (l *Lamp) String() string {
	return fmt.Sprintf("Lamp %s (%s) at %s:%d", l.Serial, l.Hostname, l.IP, l.Port)
}

// Address returns the host to hand to the lamp client. The firmware serves
// on port 80, but a non-default port is included when advertised.
func (l *Lamp) Address() string {
	if l.Port != 0 && l.Port != DefaultPort {
		return fmt.Sprintf("%s:%d", l.IP, l.Port)
	}
	return l.IP
}

// GetMetadata retrieves a metadata value by key; ok reports whether the
// lamp advertised it
func (l *Lamp) GetMetadata(key string) (string, bool) {
	if l.Metadata == nil {
		return "", false
	}
	value, ok := l.Metadata[key]
	return value, ok
}
