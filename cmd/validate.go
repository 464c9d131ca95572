package main

import (
	"fmt"
	"os"

	"compose2containerapps/internal/azure"

	"github.com/spf13/cobra"
)

func newValidateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the Azure CLI is installed, recent enough and logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := azure.CheckInstalled(); err != nil {
				return err
			}

			az := azure.NewCli(azure.NewRunner(c.logger), c.logger)
			account, err := az.Validate(cmd.Context(), c.v.GetString("subscription"))
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "%s logged in as %s, subscription %s (%s)\n",
				successColor.Sprint("✓"), account.User.Name, account.Name, account.ID)
			return nil
		},
	}
	cmd.Flags().String("subscription", "", "Azure subscription to switch to")
	return cmd
}
