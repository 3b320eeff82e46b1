package bootstrap

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/kbukum/sessionkit/component"
)

// writeSummary prints one row per component, using Describe when available.
func writeSummary(w io.Writer, name, version string, took time.Duration, comps []component.Component) {
	fmt.Fprintf(w, "%s %s started in %s\n", name, version, took.Round(time.Millisecond))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Component", "Type", "Details"})
	table.SetBorder(false)
	for _, c := range comps {
		row := []string{c.Name(), "", ""}
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name != "" {
				row[0] = desc.Name
			}
			row[1], row[2] = desc.Type, desc.Details
		}
		table.Append(row)
	}
	table.Render()
}
