package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// layoutCommand prints the computed layout of a document.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Compute the layout of a diagram document",
		Long: `Layout measures every label, runs the layout engine and prints the
resulting boxes and edge routes as JSON. Nothing is drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], &flags, output)
		},
	}

	flags.bindStyle(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, flags *pipelineFlags, output string) error {
	logger := loggerFromContext(ctx)

	m, err := loadModel(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	opts, err := flags.options(logger)
	if err != nil {
		return err
	}

	flags.noCache = true
	runner, err := c.newRunner(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Layout(ctx, m, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Laid out %d services", len(res.Nodes)))

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printFile(output)
	return nil
}
