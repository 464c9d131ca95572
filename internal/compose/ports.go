package compose

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/compose-spec/compose-go/v2/types"
	corev1 "k8s.io/api/core/v1"
)

var (
	ErrInvalidPort      = errors.New("invalid port")
	ErrInvalidPortRange = errors.New("invalid port range")
)

// ParsePorts parses a short syntax `ports` or `expose` entry, e.g. "3000",
// "8000:80", "127.0.0.1:5000-5010:5000-5010" or "6060/udp". Ranges are
// expanded into one config per port.
func ParsePorts(entry string) ([]types.ServicePortConfig, error) {
	entry = strings.TrimSpace(entry)
	if err := checkRanges(entry); err != nil {
		return nil, err
	}
	ports, err := types.ParsePortConfig(entry)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPort, entry, err)
	}
	return ports, nil
}

// checkRanges reports a range whose low end is above its high end.
func checkRanges(entry string) error {
	ports, _, _ := strings.Cut(entry, "/")
	for _, part := range strings.Split(ports, ":") {
		low, high, ok := strings.Cut(part, "-")
		if !ok {
			continue
		}
		lo, errLow := strconv.ParseUint(low, 10, 16)
		hi, errHigh := strconv.ParseUint(high, 10, 16)
		if errLow == nil && errHigh == nil && lo > hi {
			return fmt.Errorf("%w: %s", ErrInvalidPortRange, part)
		}
	}
	return nil
}

// checkPortEntry validates one raw `ports` item before the file is handed
// to the loader.
func checkPortEntry(item any) error {
	switch v := item.(type) {
	case nil:
		return fmt.Errorf("%w: empty port entry", ErrInvalidPort)
	case map[string]any:
		target := fmt.Sprint(v["target"])
		if _, err := strconv.ParseUint(target, 10, 16); err != nil {
			return fmt.Errorf("%w: target %q", ErrInvalidPort, target)
		}
		if published, ok := v["published"]; ok && published != nil {
			return checkRanges(fmt.Sprint(published))
		}
		return nil
	case []any:
		return fmt.Errorf("%w: expected a string, number or mapping", ErrInvalidPort)
	default:
		_, err := ParsePorts(fmt.Sprint(v))
		return err
	}
}

// ParseProtocol maps a compose protocol name onto the core protocol
// constants. An empty name means TCP.
func ParseProtocol(s string) corev1.Protocol {
	s = strings.TrimSpace(s)
	if s == "" {
		return corev1.ProtocolTCP
	}
	return corev1.Protocol(strings.ToUpper(s))
}

// FormatPort renders a port config the way it would be written in the short
// syntax. Unset parts are left out.
func FormatPort(p types.ServicePortConfig) string {
	var b strings.Builder
	if p.HostIP != "" {
		b.WriteString(p.HostIP)
		b.WriteString(":")
	}
	if p.Published != "" {
		b.WriteString(p.Published)
		b.WriteString(":")
	}
	b.WriteString(strconv.FormatUint(uint64(p.Target), 10))
	if p.Protocol != "" {
		b.WriteString("/")
		b.WriteString(p.Protocol)
	}
	return b.String()
}
