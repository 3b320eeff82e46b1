package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/sessionkit/agent"
)

func (c *cli) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new session and print its code and share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lc, err := c.lifecycle()
			if err != nil {
				return err
			}
			out, err := lc.Create(cmd.Context())
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\nLink:    %s\n", out.SessionID, agent.ShareLink(c.server(), out.SessionID))
			return nil
		},
	}
}
