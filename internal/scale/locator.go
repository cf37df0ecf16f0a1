package scale

import (
	"strings"

	"go.bug.st/serial/enumerator"
)

// FindScalePort enumerates the system's serial ports and returns the first
// one that looks like the scale's USB-serial adapter. The substring match on
// the port description is a heuristic; an explicitly configured port name
// should always take precedence over this.
func FindScalePort() (string, bool) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", false
	}
	return matchScalePort(ports)
}

// matchScalePort picks the first port whose description contains "USB" or
// "SERIAL", case-insensitively. Ties break by enumeration order.
func matchScalePort(ports []*enumerator.PortDetails) (string, bool) {
	for _, p := range ports {
		desc := strings.ToUpper(p.Product + " " + p.Name)
		if strings.Contains(desc, "USB") || strings.Contains(desc, "SERIAL") {
			return p.Name, true
		}
	}
	return "", false
}
