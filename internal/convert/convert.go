// Package convert maps Compose services onto ContainerApps documents.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"compose2containerapps/internal/compose"
	"compose2containerapps/internal/config"
	"compose2containerapps/internal/containerapps"
	"compose2containerapps/internal/logging"
	"compose2containerapps/internal/utils"
)

const ReferenceURL = "https://aka.ms/containerapps/spec"

type Converter struct {
	opts         config.Options
	selector     PortSelector
	interpolator *Interpolator
	logger       *slog.Logger
}

type Option func(*settings)

type settings struct {
	resolver Resolver
	selector PortSelector
	lookup   Lookup
	logger   *slog.Logger
}

// WithResolver sets the resolver for unset variables. The default fails.
func WithResolver(r Resolver) Option {
	return func(s *settings) { s.resolver = r }
}

// WithPortSelector sets the target port policy. The default is LowestPort.
func WithPortSelector(p PortSelector) Option {
	return func(s *settings) { s.selector = p }
}

// WithLookup sets where variables are read from. The default is the
// process environment.
func WithLookup(l Lookup) Option {
	return func(s *settings) { s.lookup = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// New validates opts and returns a Converter.
func New(opts config.Options, options ...Option) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := settings{
		resolver: StrictResolver{},
		selector: LowestPort{},
		lookup:   EnvLookup(),
		logger:   slog.New(logging.NullLogger()),
	}
	for _, o := range options {
		o(&s)
	}

	return &Converter{
		opts:         opts.WithDefaults(),
		selector:     s.selector,
		interpolator: NewInterpolator(s.lookup, s.resolver, s.logger),
		logger:       s.logger,
	}, nil
}

// Configuration maps the revision mode, secrets, registries and ingress.
func (c *Converter) Configuration(ctx context.Context, name string, svc compose.Service) (containerapps.Configuration, error) {
	ingress, err := c.Ingress(ctx, name, svc)
	if err != nil {
		return containerapps.Configuration{}, fmt.Errorf("ingress: %w", err)
	}

	return containerapps.Configuration{
		ActiveRevisionsMode: c.opts.RevisionMode,
		Secrets:             []containerapps.Secret{},
		Ingress:             ingress,
		Registries:          []containerapps.Registry{},
	}, nil
}

// Template wraps the service's container. Compose replica counts are not
// carried over, every app starts at one replica.
func (c *Converter) Template(ctx context.Context, svc compose.Service) (containerapps.Template, error) {
	container, err := c.Container(ctx, svc)
	if err != nil {
		return containerapps.Template{}, err
	}

	return containerapps.Template{
		Containers: []containerapps.Container{container},
		Scale:      containerapps.Scale{MinReplicas: 1},
	}, nil
}

// Properties maps the template before the configuration. A service without
// an image fails before its target port is selected.
func (c *Converter) Properties(ctx context.Context, name string, svc compose.Service) (containerapps.Properties, error) {
	template, err := c.Template(ctx, svc)
	if err != nil {
		return containerapps.Properties{}, err
	}
	configuration, err := c.Configuration(ctx, name, svc)
	if err != nil {
		return containerapps.Properties{}, err
	}

	return containerapps.Properties{
		KubeEnvironmentID: c.opts.EnvironmentID,
		Configuration:     configuration,
		Template:          template,
	}, nil
}

// Convert builds the ContainerApp for a single service. Errors are returned
// as *ServiceError.
func (c *Converter) Convert(ctx context.Context, name string, svc compose.Service) (*containerapps.Config, error) {
	ctx = logging.AppendCtx(ctx, slog.String("service", name))
	if c.opts.Verbose {
		c.logger.InfoContext(ctx, "the ContainerApps configuration file is documented online",
			slog.String("url", ReferenceURL))
	}
	if problems := utils.ValidateAppName(name); len(problems) > 0 {
		c.logger.WarnContext(ctx, "service name is not a valid ContainerApp name",
			slog.Any("problems", problems),
			slog.String("suggestion", utils.SanitizeAppName(name)))
	}

	properties, err := c.Properties(ctx, name, svc)
	if err != nil {
		return nil, &ServiceError{Service: name, Err: err}
	}

	cfg := &containerapps.Config{
		Kind:          containerapps.Kind,
		APIVersion:    c.opts.APIVersion,
		Location:      c.opts.Location,
		Name:          name,
		ResourceGroup: c.opts.ResourceGroup,
		Type:          containerapps.ResourceType,
		Tags:          maps.Clone(c.opts.Tags),
		Properties:    properties,
	}
	c.logger.DebugContext(ctx, "converted service",
		slog.Bool("external", properties.Configuration.Ingress.External),
		slog.Int("target_port", properties.Configuration.Ingress.TargetPort))
	return cfg, nil
}

// ConvertService converts a service read from a compose file. A service the
// file could not load fails with its load error.
func (c *Converter) ConvertService(ctx context.Context, svc compose.NamedService) (*containerapps.Config, error) {
	if svc.Err != nil {
		return nil, &ServiceError{Service: svc.Name, Err: svc.Err}
	}
	return c.Convert(ctx, svc.Name, svc.Service)
}

// Result is the outcome for one service of a multi service conversion.
type Result struct {
	Name   string
	Config *containerapps.Config
	Err    error
}

// ConvertAll converts every service in file order, or only the named ones.
// A failing service does not stop the others; all failures are joined into
// the returned error.
func (c *Converter) ConvertAll(ctx context.Context, file *compose.File, only ...string) ([]Result, error) {
	services, err := Select(file, only...)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(services))
	var errs []error
	for _, svc := range services {
		cfg, err := c.ConvertService(ctx, svc)
		results = append(results, Result{Name: svc.Name, Config: cfg, Err: err})
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to convert service",
				slog.String("service", svc.Name),
				slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return results, errors.Join(errs...)
}

// Select returns the services named in only, in file order. No names
// selects every service.
func Select(file *compose.File, only ...string) (compose.Services, error) {
	if len(only) == 0 {
		return file.Services, nil
	}

	var unknown []string
	for _, name := range only {
		if _, ok := file.Services.Get(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v (available: %v)", ErrUnknownService, unknown, file.Services.Names())
	}

	selected := make(compose.Services, 0, len(only))
	for _, svc := range file.Services {
		if slices.Contains(only, svc.Name) {
			selected = append(selected, svc)
		}
	}
	return selected, nil
}

// ConvertCompose builds a single ContainerApp named app that runs every
// service as a container of one revision. Ingress comes from the first
// service that declares ports, or the default when none does.
func (c *Converter) ConvertCompose(ctx context.Context, app string, file *compose.File) (*containerapps.Config, error) {
	ctx = logging.AppendCtx(ctx, slog.String("app", app))

	var (
		containers []containerapps.Container
		errs       []error
	)
	for _, svc := range file.Services {
		if svc.Err != nil {
			errs = append(errs, &ServiceError{Service: svc.Name, Err: svc.Err})
			continue
		}
		container, err := c.Container(logging.AppendCtx(ctx, slog.String("service", svc.Name)), svc.Service)
		if err != nil {
			errs = append(errs, &ServiceError{Service: svc.Name, Err: err})
			continue
		}
		if container.Name == "" {
			container.Name = svc.Name
		}
		containers = append(containers, container)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	public := compose.NamedService{Name: app}
	for _, svc := range file.Services {
		if len(svc.Service.Ports) > 0 {
			public = svc
			break
		}
	}
	ingress, err := c.Ingress(ctx, public.Name, compose.Service{Ports: public.Service.Ports})
	if err != nil {
		return nil, &ServiceError{Service: public.Name, Err: fmt.Errorf("ingress: %w", err)}
	}

	return &containerapps.Config{
		Kind:          containerapps.Kind,
		APIVersion:    c.opts.APIVersion,
		Location:      c.opts.Location,
		Name:          app,
		ResourceGroup: c.opts.ResourceGroup,
		Type:          containerapps.ResourceType,
		Tags:          maps.Clone(c.opts.Tags),
		Properties: containerapps.Properties{
			KubeEnvironmentID: c.opts.EnvironmentID,
			Configuration: containerapps.Configuration{
				ActiveRevisionsMode: c.opts.RevisionMode,
				Secrets:             []containerapps.Secret{},
				Ingress:             ingress,
				Registries:          []containerapps.Registry{},
			},
			Template: containerapps.Template{
				Containers: containers,
				Scale:      containerapps.Scale{MinReplicas: 1},
			},
		},
	}, nil
}

// Options returns the validated options with defaults applied.
func (c *Converter) Options() config.Options {
	return c.opts
}
