// Package pipeline runs a conversion end to end: convert every service,
// write its document and optionally deploy and record it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"compose2containerapps/internal/compose"
	"compose2containerapps/internal/containerapps"
	"compose2containerapps/internal/convert"
	"compose2containerapps/internal/database"
	"compose2containerapps/internal/logging"
	"compose2containerapps/internal/models"
	"compose2containerapps/internal/registrar"
	"compose2containerapps/internal/utils"

	"github.com/oklog/ulid/v2"
)

//go:generate go tool mockgen -destination mock_deployer_test.go -package pipeline . Deployer

// Deployer creates a ContainerApp from a rendered file and returns its FQDN.
type Deployer interface {
	CreateContainerApp(ctx context.Context, name, resourceGroup, path string) (string, error)
}

type Pipeline struct {
	converter *convert.Converter
	output    string
	deployer  Deployer
	registrar *registrar.Registrar
	store     database.Store
	logger    *slog.Logger
}

type Option func(*Pipeline)

func WithDeployer(d Deployer) Option {
	return func(p *Pipeline) { p.deployer = d }
}

// WithRegistrar sets where deployed FQDNs are published. It should be the
// registrar the converter looks variables up in.
func WithRegistrar(r *registrar.Registrar) Option {
	return func(p *Pipeline) { p.registrar = r }
}

func WithStore(s database.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a pipeline writing next to output. An empty output renders
// documents without writing them.
func New(converter *convert.Converter, output string, options ...Option) *Pipeline {
	p := &Pipeline{
		converter: converter,
		output:    output,
		registrar: registrar.New(),
		logger:    slog.New(logging.NullLogger()),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Report lists what happened to each service, in file order.
type Report struct {
	RunID    string
	Outcomes []models.ServiceOutcome
}

func (r Report) Failed() []models.ServiceOutcome {
	var failed []models.ServiceOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Run processes the selected services one after another so that a service
// can reference the FQDN of one deployed before it. Failures are collected
// and joined; a failed service never gets a file.
func (p *Pipeline) Run(ctx context.Context, file *compose.File, only ...string) (Report, error) {
	services, err := convert.Select(file, only...)
	if err != nil {
		return Report{}, err
	}

	report := Report{RunID: ulid.Make().String()}
	ctx = logging.AppendCtx(ctx, slog.String("run_id", report.RunID))

	var errs []error
	for _, svc := range services {
		outcome := p.service(ctx, report.RunID, svc)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Err != nil {
			errs = append(errs, outcome.Err)
		}
	}
	return report, errors.Join(errs...)
}

// RunSingleApp renders the whole file as one ContainerApp named app,
// written to the output path itself.
func (p *Pipeline) RunSingleApp(ctx context.Context, app string, file *compose.File) (Report, error) {
	report := Report{RunID: ulid.Make().String()}
	ctx = logging.AppendCtx(ctx, slog.String("run_id", report.RunID))

	outcome := models.ServiceOutcome{Name: app}
	cfg, err := p.converter.ConvertCompose(ctx, app, file)
	if err == nil {
		outcome.Config = cfg
		err = p.emit(ctx, &outcome, p.output)
	}
	outcome.Err = err
	p.record(ctx, report.RunID, outcome)

	report.Outcomes = append(report.Outcomes, outcome)
	return report, err
}

func (p *Pipeline) service(ctx context.Context, runID string, svc compose.NamedService) models.ServiceOutcome {
	ctx = logging.AppendCtx(ctx, slog.String("service", svc.Name))

	outcome := models.ServiceOutcome{Name: svc.Name}
	cfg, err := p.converter.ConvertService(ctx, svc)
	if err == nil {
		outcome.Config = cfg
		path := ""
		if p.output != "" {
			path = utils.OutputPath(p.output, svc.Name)
		}
		if err = p.emit(ctx, &outcome, path); err != nil {
			err = &convert.ServiceError{Service: svc.Name, Err: err}
		}
	}
	outcome.Err = err
	p.record(ctx, runID, outcome)
	return outcome
}

// emit renders outcome.Config, writes it to path when set, then deploys it.
func (p *Pipeline) emit(ctx context.Context, outcome *models.ServiceOutcome, path string) error {
	if path == "" {
		doc, err := containerapps.Marshal(outcome.Config)
		outcome.Document = doc
		return err
	}
	doc, err := containerapps.WriteFile(path, outcome.Config)
	outcome.Document = doc
	if err != nil {
		return err
	}
	outcome.Path = path
	p.logger.InfoContext(ctx, "wrote containerapp", slog.String("path", path))

	if p.deployer == nil {
		return nil
	}
	fqdn, err := p.deployer.CreateContainerApp(ctx, outcome.Config.Name, outcome.Config.ResourceGroup, path)
	if err != nil {
		return fmt.Errorf("deploying: %w", err)
	}
	outcome.FQDN = fqdn
	key := p.registrar.SetFQDN(outcome.Name, fqdn)
	p.logger.InfoContext(ctx, "deployed containerapp",
		slog.String("fqdn", fqdn),
		slog.String("variable", key))
	return nil
}

// record stores the outcome when history is enabled. Store failures are
// logged and never fail the run.
func (p *Pipeline) record(ctx context.Context, runID string, outcome models.ServiceOutcome) {
	if p.store == nil {
		return
	}

	opts := p.converter.Options()
	rec := models.NewConversionRecord(runID, outcome, opts.ResourceGroup, opts.Location, outcome.Document)
	if _, err := p.store.CreateConversion(ctx, rec); err != nil {
		p.logger.WarnContext(ctx, "failed to record conversion", slog.Any("error", err))
	}
}
