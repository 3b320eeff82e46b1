package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/sessionkit/event"
)

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch CODE|LINK",
		Short: "Follow a session's activity without joining it",
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
			p := newPrinter(cmd.OutOrStdout())
			err = lc.Watch(cmd.Context(), code, func(ev event.Event) {
				p.event(ev)
			})
			return friendly(err)
		},
	}
}
