package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gtd/internal/gtd"
)

func newReviewCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Show the weekly review statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			return printReview(cmd.OutOrStdout(), gtd.Summarize(c.Store.Items(), today()))
		},
	}
}

func printReview(w io.Writer, r gtd.Review) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total:           %d\n", r.Total)
	fmt.Fprintf(&b, "Active:          %d\n", r.Active)
	fmt.Fprintf(&b, "Completed:       %d\n", r.Completed)
	fmt.Fprintf(&b, "Completion rate: %d%%\n", r.CompletionRate)
	fmt.Fprintf(&b, "Due this week:   %d\n", r.DueThisWeek)
	section := func(title string, buckets []gtd.Bucket) {
		fmt.Fprintf(&b, "\n%s\n", title)
		for _, bk := range buckets {
			if bk.Placeholder {
				fmt.Fprintf(&b, "  %s\n", bk.Label)
				continue
			}
			fmt.Fprintf(&b, "  %-14s %3d  %s\n", bk.Label, bk.Count, strings.Repeat("#", bk.Percent/10))
		}
	}
	section("By priority", r.ByPriority)
	section("By context", r.ByContext)
	section("By project", r.ByProject)
	section("By list", r.ByList)
	_, err := io.WriteString(w, b.String())
	return err
}

func newThemeCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			current := gtd.LoadTheme(c.KV, c.Config.App)
			if len(args) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), current)
				return nil
			}
			var next gtd.Theme
			switch strings.ToLower(args[0]) {
			case "dark":
				next = gtd.ThemeDark
			case "light":
				next = gtd.ThemeLight
			case "toggle":
				next = gtd.ThemeFor(current != gtd.ThemeDark)
			default:
				return fmt.Errorf("unknown theme %q", args[0])
			}
			gtd.SaveTheme(c.KV, c.Config.App, next, c.Logger)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", next)
			return nil
		},
	}
}

func newExportCommand(e *env) *cobra.Command {
	var opts struct {
		Format string
		Raw    bool
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all tasks to stdout",
		Long: `Write the whole collection in store order as JSON or YAML.

With --raw, every row of the key/value table is written instead, which
includes the theme preference and the items blob as stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			var v any = c.Store.Items()
			if opts.Raw {
				if c.DB == nil {
					return errors.New("--raw needs the sqlite store")
				}
				entries, err := c.DB.Entries()
				if err != nil {
					return err
				}
				v = entries
			}
			return encode(cmd.OutOrStdout(), opts.Format, v)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "json", "output format: json or yaml")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "dump the key/value table")
	return cmd
}

func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
