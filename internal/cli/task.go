package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gtd/internal/gtd"
)

// nowFunc is the clock used for "today"; tests pin it.
var nowFunc = time.Now

func today() gtd.Date { return gtd.DateOf(nowFunc()) }

func newAddCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Capture a task in the inbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			t, ok := c.Store.Add(strings.Join(args, " "))
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing added: task text is empty")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", t.ID, t.Text)
			return nil
		},
	}
}

func newListCommand(e *env) *cobra.Command {
	var opts struct {
		List    string
		Filter  string
		Context string
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of one list",
		Long: `Display the tasks of a list, highest priority first and newest first
within a priority.

Filters:
  all      every task of the list
  today    open tasks due today
  week     open tasks due within the next 7 days
  context  tasks tagged with --context`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			q := gtd.Query{List: c.StartList(), Filter: gtd.FilterAll}
			if opts.List != "" {
				if q.List, err = gtd.ParseList(opts.List); err != nil {
					return err
				}
			}
			if opts.Filter != "" {
				q.Filter = gtd.Filter(strings.ToLower(opts.Filter))
				if !q.Filter.Valid() || q.Filter == gtd.FilterReview {
					return fmt.Errorf("unknown filter %q", opts.Filter)
				}
			}
			if opts.Context != "" {
				if q.Context, err = gtd.ParseContext(opts.Context); err != nil {
					return err
				}
				if opts.Filter == "" {
					q.Filter = gtd.FilterContext
				}
			}
			rows := gtd.Rows(gtd.Project(c.Store.Items(), q, today()))
			return printRows(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVarP(&opts.List, "list", "l", "", "list to show (default from config)")
	cmd.Flags().StringVarP(&opts.Filter, "filter", "f", "", "filter: all, today, week or context")
	cmd.Flags().StringVarP(&opts.Context, "context", "c", "", "context: work, home, phone or computer")
	return cmd
}

func printRows(w io.Writer, rows []gtd.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tTEXT\tDETAILS")
	for _, row := range rows {
		done := " "
		if row.Done {
			done = "x"
		}
		labels := make([]string, 0, len(row.Badges))
		for _, b := range row.Badges {
			labels = append(labels, b.Label)
		}
		_, _ = fmt.Fprintf(tw, "%s\t[%s]\t%s\t%s\n", row.ID, done, row.Text, strings.Join(labels, " "))
	}
	return tw.Flush()
}

func notFound(w io.Writer, id string) error {
	_, err := fmt.Fprintf(w, "No task with id %s\n", id)
	return err
}

func newDoneCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			id := args[0]
			if !c.Store.ToggleDone(id) {
				return notFound(cmd.OutOrStdout(), id)
			}
			t, _ := c.Store.Get(id)
			state := "open"
			if t.Done {
				state = "done"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", id, state)
			return nil
		},
	}
}

func newMoveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <list>",
		Short: "Move a task to another list",
		Long:  "Move a task to one of: inbox, next, project, waiting, someday.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := gtd.ParseList(args[1])
			if err != nil {
				return err
			}
			c, err := e.container()
			if err != nil {
				return err
			}
			if !c.Store.Move(args[0], target) {
				return notFound(cmd.OutOrStdout(), args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", args[0], target.Label())
			return nil
		},
	}
}

func newRmCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			if !c.Store.Remove(args[0]) {
				return notFound(cmd.OutOrStdout(), args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newEditCommand(e *env) *cobra.Command {
	var opts struct {
		Text        string
		Description string
		Priority    string
		Due         string
		Project     string
		Contexts    []string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields of a task",
		Long: `Edit a task. Only the flags given are changed.

Examples:
  gtd edit lx2k9a1b --priority high --due 2026-03-01
  gtd edit lx2k9a1b --due none --contexts work,phone
  gtd edit lx2k9a1b --tags ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p gtd.Patch
			flags := cmd.Flags()
			if flags.Changed("text") {
				p.Text = &opts.Text
			}
			if flags.Changed("description") {
				p.Description = &opts.Description
			}
			if flags.Changed("priority") {
				prio, err := gtd.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				p.Priority = &prio
			}
			if flags.Changed("due") {
				switch strings.ToLower(strings.TrimSpace(opts.Due)) {
				case "", "none":
					p.ClearDueDate = true
				default:
					d, err := gtd.ParseDate(opts.Due)
					if err != nil {
						return err
					}
					p.DueDate = &d
				}
			}
			if flags.Changed("project") {
				p.Project = &opts.Project
			}
			if flags.Changed("contexts") {
				p.Contexts = []gtd.Context{}
				for _, raw := range opts.Contexts {
					if strings.TrimSpace(raw) == "" {
						continue
					}
					ctx, err := gtd.ParseContext(raw)
					if err != nil {
						return err
					}
					p.Contexts = append(p.Contexts, ctx)
				}
			}
			if flags.Changed("tags") {
				p.Tags = gtd.SplitTags(strings.Join(opts.Tags, ","))
			}

			c, err := e.container()
			if err != nil {
				return err
			}
			if !c.Store.Update(args[0], p) {
				return notFound(cmd.OutOrStdout(), args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "new title (blank is ignored)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "free-form notes")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "high, medium or low")
	cmd.Flags().StringVar(&opts.Due, "due", "", "due date YYYY-MM-DD, or none to clear")
	cmd.Flags().StringVar(&opts.Project, "project", "", "project name, empty to clear")
	cmd.Flags().StringSliceVar(&opts.Contexts, "contexts", nil, "comma-separated contexts, empty to clear")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "comma-separated tags, empty to clear")
	return cmd
}

func newClearCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := e.container()
			if err != nil {
				return err
			}
			n := c.Store.ClearCompleted()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d completed task(s)\n", n)
			return nil
		},
	}
}
