package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramartinez7/coding-guidelines-sub005/internal/domain/order"
)

// TableView is the rendered form of a transition table.
type TableView struct {
	Initial     string    `json:"initial"`
	Transitions []RowView `json:"transitions"`
	Terminal    []string  `json:"terminal"`
}

// RowView is one rule of a TableView.
type RowView struct {
	From    string `json:"from"`
	Event   string `json:"event"`
	To      string `json:"to"`
	Guarded bool   `json:"guarded"`
}

// NewTableCommand creates the table command.
func NewTableCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the order transition table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := order.NewTable()
			if err != nil {
				return fmt.Errorf("building order table: %w", err)
			}
			return renderTable(cmd.OutOrStdout(), opts.Format, viewOf(table))
		},
	}
}

func viewOf(table *order.Table) TableView {
	view := TableView{
		Initial:     table.Initial().String(),
		Transitions: []RowView{},
		Terminal:    []string{},
	}
	for _, e := range table.Entries() {
		view.Transitions = append(view.Transitions, RowView{
			From:    e.Source.String(),
			Event:   e.Event,
			To:      e.Target.String(),
			Guarded: e.Guarded(),
		})
	}
	for _, s := range table.States() {
		if table.IsTerminal(s) {
			view.Terminal = append(view.Terminal, s.String())
		}
	}
	return view
}

func renderTable(w io.Writer, format string, view TableView) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	widths := [3]int{len("FROM"), len("EVENT"), len("TO")}
	for _, r := range view.Transitions {
		widths[0] = max(widths[0], len(r.From))
		widths[1] = max(widths[1], len(r.Event))
		widths[2] = max(widths[2], len(r.To))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "initial: %s\n\n", view.Initial)
	fmt.Fprintf(&b, "%-*s  %-*s  %-*s  %s\n", widths[0], "FROM", widths[1], "EVENT", widths[2], "TO", "GUARD")
	for _, r := range view.Transitions {
		guard := "-"
		if r.Guarded {
			guard = "yes"
		}
		fmt.Fprintf(&b, "%-*s  %-*s  %-*s  %s\n", widths[0], r.From, widths[1], r.Event, widths[2], r.To, guard)
	}
	fmt.Fprintf(&b, "\nterminal: %s\n", strings.Join(view.Terminal, ", "))

	_, err := io.WriteString(w, b.String())
	return err
}
