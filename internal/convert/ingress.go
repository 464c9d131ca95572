package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"compose2containerapps/internal/compose"
	"compose2containerapps/internal/containerapps"

	"github.com/compose-spec/compose-go/v2/types"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/sets"
)

// DefaultTargetPort is used when a service declares neither ports nor expose.
const DefaultTargetPort = 80

// PortSelector picks the target port when a service offers several.
// ports is sorted and free of duplicates.
type PortSelector interface {
	SelectPort(ctx context.Context, service string, ports []int) (int, error)
}

type PortSelectorFunc func(ctx context.Context, service string, ports []int) (int, error)

func (f PortSelectorFunc) SelectPort(ctx context.Context, service string, ports []int) (int, error) {
	return f(ctx, service, ports)
}

// LowestPort always picks the lowest port.
type LowestPort struct{}

func (LowestPort) SelectPort(_ context.Context, _ string, ports []int) (int, error) {
	if len(ports) == 0 {
		return 0, errors.New("no ports to select from")
	}
	return ports[0], nil
}

// Ingress maps a service's ports onto the ingress settings. Published TCP
// ports make the app external, `expose` entries make it internal, and a
// service with neither gets the external default on port 80.
func (c *Converter) Ingress(ctx context.Context, name string, svc compose.Service) (containerapps.Ingress, error) {
	ingress := containerapps.Ingress{
		AllowInsecure: false,
		Transport:     c.opts.Transport,
	}

	if ports := c.portCandidates(ctx, svc.Ports); len(ports) > 0 {
		port, err := c.selectPort(ctx, name, ports)
		if err != nil {
			return ingress, err
		}
		ingress.External = true
		ingress.TargetPort = port
		return ingress, nil
	}

	exposed, err := c.exposeCandidates(ctx, svc.Expose)
	if err != nil {
		return ingress, err
	}
	if len(exposed) > 0 {
		port, err := c.selectPort(ctx, name, exposed)
		if err != nil {
			return ingress, err
		}
		ingress.External = false
		ingress.TargetPort = port
		return ingress, nil
	}

	c.logger.DebugContext(ctx, "no ports declared, using default ingress",
		slog.Int("target_port", DefaultTargetPort))
	ingress.External = true
	ingress.TargetPort = DefaultTargetPort
	return ingress, nil
}

func (c *Converter) portCandidates(ctx context.Context, ports []types.ServicePortConfig) []int {
	candidates := sets.New[int]()
	for _, port := range ports {
		if protocol := compose.ParseProtocol(port.Protocol); protocol != corev1.ProtocolTCP {
			c.logger.DebugContext(ctx, "skipping non tcp port",
				slog.String("port", compose.FormatPort(port)),
				slog.String("protocol", string(protocol)))
			continue
		}
		if port.Target == 0 {
			continue
		}
		candidates.Insert(int(port.Target))
	}
	return sets.List(candidates)
}

func (c *Converter) exposeCandidates(ctx context.Context, entries types.StringOrNumberList) ([]int, error) {
	candidates := sets.New[int]()
	for _, entry := range entries {
		ports, err := compose.ParsePorts(entry)
		if errors.Is(err, compose.ErrInvalidPortRange) {
			return nil, fmt.Errorf("parsing expose %q: %w", entry, err)
		}
		if err != nil {
			c.logger.WarnContext(ctx, "skipping invalid expose entry",
				slog.String("expose", entry),
				slog.Any("error", err))
			continue
		}
		candidates.Insert(c.portCandidates(ctx, ports)...)
	}
	return sets.List(candidates), nil
}

func (c *Converter) selectPort(ctx context.Context, name string, ports []int) (int, error) {
	if len(ports) == 1 {
		return ports[0], nil
	}

	port, err := c.selector.SelectPort(ctx, name, ports)
	if err != nil {
		return 0, fmt.Errorf("selecting target port: %w", err)
	}
	if !sets.New(ports...).Has(port) {
		return 0, fmt.Errorf("selected port %d is not one of %v", port, ports)
	}
	c.logger.DebugContext(ctx, "selected target port",
		slog.Int("target_port", port),
		slog.Any("candidates", ports))
	return port, nil
}
