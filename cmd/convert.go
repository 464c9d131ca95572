package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"compose2containerapps/internal/azure"
	"compose2containerapps/internal/compose"
	"compose2containerapps/internal/config"
	"compose2containerapps/internal/containerapps"
	"compose2containerapps/internal/convert"
	"compose2containerapps/internal/database"
	"compose2containerapps/internal/pipeline"
	"compose2containerapps/internal/prompt"
	"compose2containerapps/internal/registrar"
	"compose2containerapps/internal/setup"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	defaultInput  = "./docker-compose.yml"
	defaultOutput = "containerapps.yml"
)

func newConvertCmd(c *cli, deploy bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write one ContainerApps document per Compose service",
		Example: heredoc.Doc(`
			compose2containerapps convert -g my-rg -l eastus \
			  -i /subscriptions/.../managedEnvironments/my-env
			compose2containerapps convert --service web --env TAG=1.4 --no-prompt
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), deploy)
		},
	}
	if deploy {
		cmd.Use = "deploy"
		cmd.Short = "Convert, then create every ContainerApp with the Azure CLI"
		cmd.Long = heredoc.Doc(`
			deploy writes the same documents as convert and then runs
			"az containerapp create" for each of them, in file order.

			The FQDN of every deployed app is published as <SERVICE>_FQDN,
			so services further down the file can reference ${API_FQDN}.
		`)
	}

	flags := cmd.Flags()
	flags.StringP("input", "f", defaultInput, "Compose file to convert")
	flags.StringP("output", "o", defaultOutput, "base path of the generated files")
	flags.StringP("resource-group", "g", "", "resource group of the ContainerApps (env RESOURCE_GROUP)")
	flags.StringP("location", "l", "", "Azure location of the ContainerApps (env LOCATION)")
	flags.StringP("containerapps-environment-id", "i", "", "resource id of the ContainerApps environment (env CONTAINERAPPS_ENVIRONMENT_ID)")
	flags.String("environment-name", "", "look the environment id up by name in the resource group with the Azure CLI")
	flags.String("transport", "", "ingress transport: auto, http or http2 (env TRANSPORT)")
	flags.String("revisions-mode", "", "active revisions mode: single or multiple (env REVISIONS_MODE)")
	flags.String("api-version", "", "apiVersion written to every document")
	flags.StringToString("tag", nil, "resource tag as key=value, can be repeated")
	flags.StringSlice("service", nil, "only convert these services")
	flags.StringArray("env", nil, "variable used for interpolation as KEY=VALUE, can be repeated")
	flags.Bool("no-prompt", false, "never prompt, fail on unset variables")
	flags.Bool("allow-unset", false, "replace unset variables with an empty string instead of failing")
	flags.String("single-app", "", "render every service as a container of one ContainerApp with this name")
	flags.String("subscription", "", "Azure subscription to switch to before using the Azure CLI")
	flags.Bool("validate-azure", deploy, "check the Azure CLI version and login before converting")
	return cmd
}

// options builds the converter options from the bound flags. Enum values
// are accepted in any case.
func (c *cli) options() (config.Options, error) {
	transport, err := containerapps.ParseTransport(c.v.GetString("transport"))
	if err != nil {
		return config.Options{}, fmt.Errorf("--transport: %w", err)
	}
	mode, err := containerapps.ParseRevisionMode(c.v.GetString("revisions-mode"))
	if err != nil {
		return config.Options{}, fmt.Errorf("--revisions-mode: %w", err)
	}

	return config.Options{
		ResourceGroup: c.v.GetString("resource-group"),
		Location:      c.v.GetString("location"),
		EnvironmentID: c.v.GetString("containerapps-environment-id"),
		Transport:     transport,
		RevisionMode:  mode,
		APIVersion:    c.v.GetString("api-version"),
		Tags:          c.v.GetStringMapString("tag"),
		Verbose:       c.v.GetBool("verbose"),
	}, nil
}

// parseValues reads KEY=VALUE pairs.
func parseValues(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env %q, expected KEY=VALUE", pair)
		}
		values[key] = value
	}
	return values, nil
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// resolver picks how unset variables are handled. Explicit values always
// come first.
func (c *cli) resolver(ask prompt.Asker) convert.Resolver {
	switch {
	case c.v.GetBool("allow-unset"):
		return convert.EmptyResolver{}
	case ask != nil:
		return prompt.NewResolver(ask)
	default:
		return convert.StrictResolver{}
	}
}

func (c *cli) runConvert(ctx context.Context, deploy bool) error {
	input := c.v.GetString("input")
	file, err := compose.ReadFile(ctx, input)
	if err != nil {
		return err
	}
	dotenv, err := compose.LoadDotEnv(input)
	if err != nil {
		return err
	}
	overrides, err := parseValues(c.v.GetStringSlice("env"))
	if err != nil {
		return err
	}

	var ask prompt.Asker
	if !c.v.GetBool("no-prompt") && interactive() {
		ask = prompt.NewAsker()
	}

	opts, err := c.options()
	if err != nil {
		return err
	}
	az := azure.NewCli(azure.NewRunner(c.logger), c.logger)
	needsAzure := deploy || c.v.GetBool("validate-azure") ||
		(opts.EnvironmentID == "" && c.v.GetString("environment-name") != "")
	if needsAzure {
		if err := azure.CheckInstalled(); err != nil {
			return err
		}
		if _, err := az.Validate(ctx, c.v.GetString("subscription")); err != nil {
			return err
		}
	}
	if opts.EnvironmentID == "" && c.v.GetString("environment-name") != "" {
		id, err := az.EnvironmentID(ctx, opts.ResourceGroup, c.v.GetString("environment-name"))
		if err != nil {
			return err
		}
		opts.EnvironmentID = id
	}

	reg := registrar.New()
	converterOpts := []convert.Option{
		convert.WithLookup(convert.ChainLookup(
			convert.MapLookup(overrides),
			reg.Lookup,
			convert.EnvLookup(),
			convert.MapLookup(dotenv),
		)),
		convert.WithResolver(c.resolver(ask)),
		convert.WithLogger(c.logger),
	}
	if ask != nil {
		converterOpts = append(converterOpts, convert.WithPortSelector(prompt.NewPortSelector(ask)))
	}
	converter, err := convert.New(opts, converterOpts...)
	if err != nil {
		return err
	}

	pipelineOpts := []pipeline.Option{
		pipeline.WithRegistrar(reg),
		pipeline.WithLogger(c.logger),
	}
	if deploy {
		pipelineOpts = append(pipelineOpts, pipeline.WithDeployer(az))
	}
	store, closeStore, err := c.historyStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()
	if store != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithStore(store))
	}

	p := pipeline.New(converter, c.v.GetString("output"), pipelineOpts...)
	var report pipeline.Report
	if app := c.v.GetString("single-app"); app != "" {
		report, err = p.RunSingleApp(ctx, app, file)
	} else {
		report, err = p.Run(ctx, file, c.v.GetStringSlice("service")...)
	}
	printSummary(os.Stdout, report)
	return err
}

// historyStore connects to the history database when DB_HOST is set.
func (c *cli) historyStore(ctx context.Context) (database.Store, func(), error) {
	if os.Getenv("DB_HOST") == "" {
		return nil, func() {}, nil
	}

	envConfig, err := config.LoadEnvConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := setup.Database(ctx, envConfig)
	if err != nil {
		return nil, nil, err
	}
	c.logger.DebugContext(ctx, "recording conversions", slog.String("host", envConfig.Database.Host))
	return db, func() { _ = db.Close() }, nil
}
