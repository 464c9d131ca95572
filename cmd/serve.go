package main

import (
	"log/slog"

	"compose2containerapps/internal/api"
	"compose2containerapps/internal/config"
	"compose2containerapps/internal/database"
	"compose2containerapps/internal/env"
	"compose2containerapps/internal/setup"

	"github.com/spf13/cobra"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion server",
		Long: `Start the conversion server. PORT sets the listen port, DB_HOST, DB_PORT,
DB_NAME, DB_USER and DB_PASSWORD enable the conversion history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			envConfig, err := config.LoadEnvConfig()
			if err != nil {
				return err
			}
			if port := c.v.GetString("port"); port != "" {
				envConfig.Port = port
			}

			var store database.Store
			db, err := setup.Database(ctx, envConfig)
			if err != nil {
				return err
			}
			if db != nil {
				defer func() { _ = db.Close() }()
				store = db
				c.logger.InfoContext(ctx, "Connected to database", slog.String("host", envConfig.Database.Host))
			}

			return api.Start(ctx, envConfig.Port, env.NewEnvironment(c.logger, store))
		},
	}
	cmd.Flags().StringP("port", "p", "", "port to run the server on (default $PORT or 8080)")
	return cmd
}
