package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdraw/pkg/icons"
	"github.com/matzehuels/archdraw/pkg/observability"
	"github.com/matzehuels/archdraw/pkg/pipeline"
)

// inspectCommand renders a document and browses the resulting registry.
func (c *CLI) inspectCommand() *cobra.Command {
	var flags pipelineFlags

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Browse the rendered entities of a diagram",
		Long: `Inspect renders the document without touching the cache and opens an
interactive list of every registered entity with its drawing handle and
rendered extent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], &flags)
		},
	}

	flags.bindStyle(cmd)
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, flags *pipelineFlags) error {
	logger := loggerFromContext(ctx)

	m, err := loadModel(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	opts, err := flags.options(logger)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	observability.SetPipelineHooks(spinnerHooks{s: spinner})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})
	res, err := pipeline.Render(ctx, m, opts, pipeline.Deps{Icons: icons.Default()})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	for _, w := range res.Report.Warnings {
		printWarning("%s: %s", w.ID, w.Message)
	}

	p := tea.NewProgram(NewRegistryModel(res.Canvas, m), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
