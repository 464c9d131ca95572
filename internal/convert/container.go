package convert

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"compose2containerapps/internal/compose"
	"compose2containerapps/internal/containerapps"
)

// Container maps the image, container name and environment of a service.
// Environment entries are emitted sorted by name.
func (c *Converter) Container(ctx context.Context, svc compose.Service) (containerapps.Container, error) {
	var container containerapps.Container

	if strings.TrimSpace(svc.Image) == "" {
		if svc.Build != nil {
			c.logger.WarnContext(ctx, "services that are only built are not supported, set an image")
		}
		return container, ErrMissingImage
	}
	image, err := c.interpolator.Interpolate(ctx, svc.Image)
	if err != nil {
		return container, fmt.Errorf("image: %w", err)
	}
	if strings.TrimSpace(image) == "" {
		return container, ErrMissingImage
	}
	container.Image = image

	if svc.ContainerName != "" {
		name, err := c.interpolator.Interpolate(ctx, svc.ContainerName)
		if err != nil {
			return container, fmt.Errorf("container_name: %w", err)
		}
		container.Name = name
	}

	for _, name := range slices.Sorted(maps.Keys(svc.Environment)) {
		template := "${" + name + "}"
		if v := svc.Environment[name]; v != nil {
			template = *v
		}
		value, err := c.interpolator.Interpolate(ctx, template)
		if err != nil {
			return container, fmt.Errorf("environment %s: %w", name, err)
		}
		container.Env = append(container.Env, containerapps.Value(name, value))
	}
	c.logger.DebugContext(ctx, "mapped container",
		slog.String("image", container.Image),
		slog.Int("env", len(container.Env)))

	return container, nil
}
