package containerapps

import (
	"encoding"
	"fmt"
	"strings"
)

var (
	_ encoding.TextMarshaler   = (*RevisionMode)(nil)
	_ encoding.TextUnmarshaler = (*RevisionMode)(nil)
	_ encoding.TextMarshaler   = (*Transport)(nil)
	_ encoding.TextUnmarshaler = (*Transport)(nil)
)

type RevisionMode string

const (
	RevisionModeSingle   RevisionMode = "single"
	RevisionModeMultiple RevisionMode = "multiple"
)

func (m RevisionMode) MarshalText() ([]byte, error) {
	switch m {
	case RevisionModeSingle, RevisionModeMultiple:
		return []byte(m), nil
	case "":
		return []byte(RevisionModeSingle), nil
	default:
		return nil, fmt.Errorf("invalid revision mode %q", string(m))
	}
}

func (m *RevisionMode) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	switch strings.ToLower(raw) {
	case "", "single":
		*m = RevisionModeSingle
	case "multiple":
		*m = RevisionModeMultiple
	default:
		return fmt.Errorf("invalid revision mode %q (expected one of: single, multiple)", raw)
	}
	return nil
}

func (m RevisionMode) String() string {
	if m == "" {
		return string(RevisionModeSingle)
	}
	return string(m)
}

// Transport is the ingress transport protocol.
type Transport string

const (
	TransportAuto  Transport = "auto"
	TransportHTTP  Transport = "http"
	TransportHTTP2 Transport = "http2"
)

func (t Transport) MarshalText() ([]byte, error) {
	switch t {
	case TransportAuto, TransportHTTP, TransportHTTP2:
		return []byte(t), nil
	case "":
		return []byte(TransportAuto), nil
	default:
		return nil, fmt.Errorf("invalid transport %q", string(t))
	}
}

func (t *Transport) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	switch strings.ToLower(raw) {
	case "", "auto":
		*t = TransportAuto
	case "http":
		*t = TransportHTTP
	case "http2":
		*t = TransportHTTP2
	default:
		return fmt.Errorf("invalid transport %q (expected one of: auto, http, http2)", raw)
	}
	return nil
}

func (t Transport) String() string {
	if t == "" {
		return string(TransportAuto)
	}
	return string(t)
}

// ParseTransport parses a transport name, an empty name means auto.
func ParseTransport(s string) (Transport, error) {
	var t Transport
	err := t.UnmarshalText([]byte(s))
	return t, err
}

func ParseRevisionMode(s string) (RevisionMode, error) {
	var m RevisionMode
	err := m.UnmarshalText([]byte(s))
	return m, err
}
