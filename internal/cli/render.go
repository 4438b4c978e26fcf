package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/observability"
	"github.com/matzehuels/archdraw/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	pipelineFlags
	output  string  // output file, or base path for several formats
	formats string  // comma-separated output formats
	scale   float64 // PNG resolution multiplier
}

// renderCommand draws a diagram document.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a diagram document to SVG, PNG, PDF or JSON",
		Long: `Render reads a JSON diagram document (or "-" for stdin), lays it out and
writes one file per requested format. Results are cached by document and
options; --no-cache forces a fresh render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseList(opts.formats)
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, &opts)
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, formats []string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	m, err := loadModel(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	popts, err := opts.options(logger)
	if err != nil {
		return err
	}
	popts.Formats = formats
	popts.Scale = opts.scale
	popts.Refresh = opts.noCache

	runner, err := c.newRunner(ctx, &opts.pipelineFlags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	observability.SetPipelineHooks(spinnerHooks{s: spinner})
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	res, err := runner.Execute(ctx, m, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(res.Artifacts)))

	if res.Report != nil {
		for _, w := range res.Report.Warnings {
			printWarning("%s: %s", w.ID, w.Message)
		}
		if len(res.Report.Skipped) > 0 {
			printDetail("edges without a route: %s", strings.Join(res.Report.Skipped, ", "))
		}
	}

	paths := outputPaths(input, opts.output, formats)
	for _, f := range formats {
		if err := errors.ValidatePath(paths[f]); err != nil {
			return err
		}
		if err := os.WriteFile(paths[f], res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	printSuccess("Rendered %s", filepath.Base(input))
	printStats(res.Stats.Nodes, res.Stats.Groups, res.Stats.Edges, res.CacheInfo.ArtifactHit)
	for _, f := range formats {
		printFile(paths[f])
	}
	printKeyValue("render id", res.RenderID)
	if input != "-" {
		printNextStep("Browse the entities", "archdraw inspect "+input)
	}
	return nil
}

// outputPaths decides where each format is written. A single format with
// -o uses that path verbatim; otherwise -o (or the input name) is a base
// path that gets the format as extension. The input file is never
// overwritten.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		if input == "-" {
			base = "diagram"
		} else {
			base = strings.TrimSuffix(input, filepath.Ext(input))
		}
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	for _, f := range formats {
		p := base + "." + f
		if p == input {
			p = base + ".render." + f
		}
		paths[f] = p
	}
	return paths
}
