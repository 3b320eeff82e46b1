package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify CODE|LINK",
		Short: "Check that a session exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := sessionArg(args)
			if err != nil {
				return err
			}
			lc, err := c.lifecycle()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), c.verifyTimeout())
			defer cancel()

			out, err := lc.Verify(ctx, code)
			if err != nil {
				return friendly(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s is open with %d participant(s)\n", out.SessionID, out.ParticipantsCount)
			return nil
		},
	}
}
