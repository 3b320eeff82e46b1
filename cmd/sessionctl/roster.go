package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kbukum/sessionkit/event"
)

func (c *cli) rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster CODE|LINK",
		Short: "List the participants of a session",
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
			out, err := lc.Roster(cmd.Context(), code)
			if err != nil {
				return friendly(err)
			}
			if out.Count == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s has no participants\n", code)
				return nil
			}
			writeRoster(cmd.OutOrStdout(), out.Participants)
			return nil
		},
	}
}

func writeRoster(w io.Writer, members []event.Member) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Participant ID"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for i, m := range members {
		table.Append([]string{strconv.Itoa(i + 1), m.DisplayName, m.ParticipantID})
	}
	table.Render()
}
