package versionfile

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DescribeInvocation prints the raw arguments, the parsed invocation and every
// module the host reported, eligible or not.
func DescribeInvocation(w io.Writer, args []string, inv Invocation, root string, modules []Module) {
	fmt.Fprintf(w, "\nCommand execution with arguments %q for module tree `%s`.\n", args, root)
	if inv.Command != nil {
		fmt.Fprintf(w, "Command: %s\n", inv.Command)
	}
	if len(inv.Targets) > 0 {
		fmt.Fprintf(w, "Targets: %v\n", inv.Targets)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Kind", "Source", "Directory"})
	for _, m := range modules {
		t.AppendRow(table.Row{m.Name, m.Kind, m.Source, m.Dir})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	fmt.Fprintln(w)
}
