package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"compose2containerapps/internal/config"
	"compose2containerapps/internal/logging"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// cli holds what every command shares: the bound configuration and the
// logger built from it.
type cli struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "compose2containerapps",
		Short: "Convert a Docker Compose file into Azure ContainerApps documents",
		Long: heredoc.Doc(`
			compose2containerapps renders one ContainerApps YAML document per
			Compose service, named <service>-<output> next to the output path.

			Options can be given as flags, environment variables or keys of
			a config file passed with --config.
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file with option values (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text|json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output, implies --log-level debug")

	convertCmd := newConvertCmd(c, false)
	rootCmd.RunE = convertCmd.RunE
	rootCmd.Flags().AddFlagSet(convertCmd.Flags())

	rootCmd.AddCommand(
		convertCmd,
		newConvertCmd(c, true),
		newValidateCmd(c),
		newServeCmd(c),
	)
	return rootCmd
}

// init binds the flags of the running command, reads the config file and
// builds the logger. Flag values win over environment variables, which win
// over the config file.
func (c *cli) init(cmd *cobra.Command) error {
	if err := c.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if env := config.EnvName(f.Name); env != "" && bindErr == nil {
			bindErr = c.v.BindEnv(f.Name, env)
		}
	})
	if bindErr != nil {
		return fmt.Errorf("binding environment: %w", bindErr)
	}

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", c.cfgFile, err)
		}
	}

	level, err := logging.ParseLevel(c.v.GetString("log-level"))
	if err != nil {
		return err
	}
	if c.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	c.logger = logging.New(os.Stderr, logging.Format(c.v.GetString("log-format")), level)

	if used := c.v.ConfigFileUsed(); used != "" {
		c.logger.Debug("Using config file", slog.String("file", used))
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("Error: ")+err.Error())
		stop()
		os.Exit(1)
	}
}
