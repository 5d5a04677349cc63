package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	jerrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonpath"
	"github.com/matzehuels/jsontree/pkg/pipeline"
)

// queryCommand creates the query command for resolving a path in a document.
func (c *CLI) queryCommand() *cobra.Command {
	var (
		flags   layoutFlags
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "query [input] <path>",
		Short: "Find the node a path query points to",
		Long: `Find the node a path query points to.

Paths start at the root ($) and chain member names and array indices:
$.user.scores[1].grade. The leading "$" or "$." is optional.

Prints the canonical path and the label of the matched node. Exits with
status 1 when nothing matches, including when the path does not parse
(use --explain to see why). With one argument the sample document is used.`,
		Example: `  jsontree query data.json 'items[0].name'
  jsontree query --explain 'user.scores[1]'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg, query := "", args[0]
			if len(args) == 2 {
				arg, query = args[0], args[1]
			}
			if explain {
				text, err := explainQuery(query)
				fmt.Fprint(c.Out, text)
				if err != nil {
					return &ExitError{Code: 1}
				}
			}
			return c.runQuery(cmd.Context(), arg, query, flags)
		},
	}

	cmd.Flags().BoolVar(&explain, "explain", false, "print how the query is parsed")
	flags.register(cmd)

	return cmd
}

// runQuery lays out the input and resolves query against its path index.
func (c *CLI) runQuery(ctx context.Context, arg, query string, flags layoutFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, _, err := c.loadLayout(ctx, runner, arg, flags)
	if err != nil {
		return err
	}

	id, err := runner.Query(ctx, g, query)
	if pipeline.IsNoMatch(err) {
		c.Logger.Debug("query not resolved", "reason", jerrors.UserMessage(err))
		printError("No match for %s", query)
		return &ExitError{Code: 1}
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, StyleHighlight.Render(id))
	if node, ok := g.NodeByID(id); ok {
		fmt.Fprintln(c.Out, "  "+StyleValue.Render(node.Data.Label)+" "+StyleDim.Render("("+node.Data.Kind+")"))
	}
	return nil
}

// explainQuery describes how query parses, one step per line, or points at
// the offending character when it does not parse.
func explainQuery(query string) (string, error) {
	var b strings.Builder
	steps, err := jsonpath.Parse(query)

	var se *jsonpath.SyntaxError
	if errors.As(err, &se) {
		q := strings.TrimSpace(query)
		col := utf8.RuneCountInString(q[:min(se.Offset, len(q))])
		fmt.Fprintf(&b, "  %s\n", q)
		fmt.Fprintf(&b, "  %s^ %s (offset %d)\n", strings.Repeat(" ", col), se.Reason, se.Offset)
		return b.String(), err
	}
	if err != nil {
		return "", err
	}

	fmt.Fprintf(&b, "%-8s %s\n", "query", strings.TrimSpace(query))
	if len(steps) == 0 {
		fmt.Fprintf(&b, "%-8s %s\n", "root", "$")
	}
	for i, s := range steps {
		label := fmt.Sprintf("step %d", i+1)
		if s.IsIndex {
			fmt.Fprintf(&b, "%-8s index %d\n", label, s.Index)
		} else {
			fmt.Fprintf(&b, "%-8s field %q\n", label, s.Field)
		}
	}
	fmt.Fprintf(&b, "%-8s %s\n", "path", jsonpath.Canonical(steps))
	return b.String(), nil
}
