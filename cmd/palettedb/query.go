package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/maruel/palettedb/internal/palette"
	"github.com/maruel/palettedb/internal/store"
)

func (a *app) showCmd() *cobra.Command {
	var at, output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			doc := store.NewDocument(s.palette, s.history)
			if at != "" {
				gs, err := gitStore(s)
				if err != nil {
					return err
				}
				if doc, err = gs.LoadAt(cmd.Context(), at); err != nil {
					return err
				}
			}
			w := cmd.OutOrStdout()
			switch output {
			case "text":
				p, _, err := doc.Restore()
				if err != nil {
					return err
				}
				return printPalette(w, p, doc.Summary())
			case "json", "yaml":
				data, err := store.Marshal(doc, store.Format(output))
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			default:
				return fmt.Errorf("unknown output %q: want text, json or yaml", output)
			}
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Show the document as of this commit (git only)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, json, yaml)")
	return cmd
}

// printPalette writes one line per cell followed by the names and groups.
func printPalette(w io.Writer, p *palette.Palette, summary string) error {
	r := lipgloss.NewRenderer(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\n", summary)
	for index, cell := range p.Cells() {
		var positions []string
		for _, pos := range p.PositionsOf(index) {
			positions = append(positions, pos.String())
		}
		value, swatch := describe(r, p, palette.IndexRef(index))
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", index, value, strings.Join(positions, ","), cell.Expr, swatch)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	first := true
	for name, sel := range p.Names() {
		if first {
			_, _ = fmt.Fprintln(w, "names:")
			first = false
		}
		_, _ = fmt.Fprintf(w, "  %s = %s\n", name, sel)
	}
	if groups := p.Groups(); len(groups) != 0 {
		_, _ = fmt.Fprintln(w, "groups:")
		for _, g := range groups {
			members := p.Group(g)
			s := make([]string, len(members))
			for i, m := range members {
				s[i] = strconv.FormatUint(uint64(m), 10)
			}
			_, _ = fmt.Fprintf(w, "  %s = [%s]\n", g, strings.Join(s, ", "))
		}
	}
	return nil
}

// describe returns the computed color of r as text and as a swatch. The
// swatch is styled only when the renderer writes to a color terminal.
func describe(r *lipgloss.Renderer, p *palette.Palette, ref palette.CellRef) (value, swatch string) {
	c, ok, err := p.Color(ref)
	switch {
	case err != nil:
		return "error: " + err.Error(), ""
	case !ok:
		return "-", ""
	default:
		return c.String(), r.NewStyle().Background(lipgloss.Color(c.String())).Render("    ")
	}
}

func (a *app) resolveCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "resolve <selection.yaml>",
		Short: "Print the cells selected by a list of selectors",
		Long: `Reads a YAML or JSON list of selectors and prints the union of the cells
they select as index ranges. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sel palette.CellSelection
			if err := readInput(cmd, args[0], &sel); err != nil {
				return err
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			got := s.palette.ResolveSelection(sel)
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s: %s (%d cells)\n", sel, got.String(), got.Len())
			if !list {
				return nil
			}
			r := lipgloss.NewRenderer(w)
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for index := range got.All() {
				value, swatch := describe(r, s.palette, palette.IndexRef(index))
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", index, value, swatch)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "Print every selected cell with its color")
	return cmd
}

func (a *app) colorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <ref>",
		Short: "Print the computed color of a cell",
		Long: `Evaluates the cell named by a reference given inline as YAML or JSON, for
example '{kind: name, name: accent}' or '{kind: group, name: G, ordinal: 2}'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref palette.CellRef
			if err := store.Unmarshal([]byte(args[0]), store.FormatYAML, &ref); err != nil {
				return fmt.Errorf("invalid reference %q: %w", args[0], err)
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			c, ok, err := s.palette.Color(ref)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !ok {
				_, err = fmt.Fprintf(w, "%s: empty\n", ref)
				return err
			}
			_, err = fmt.Fprintf(w, "%s: %s\n", ref, c)
			return err
		},
	}
}

func (a *app) logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log [n]",
		Short: "List the commits of the document (git only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 20
			if len(args) == 1 {
				var err error
				if n, err = countArg(args); err != nil {
					return err
				}
			}
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()
			gs, err := gitStore(s)
			if err != nil {
				return err
			}
			commits, err := gs.Log(cmd.Context(), n)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range commits {
				_, _ = fmt.Fprintf(w, "%s %s %s %s\n", c.Hash[:12], c.When.Format("2006-01-02 15:04:05"), c.Author, c.Message)
			}
			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the document format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := store.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return err
		},
	}
}
