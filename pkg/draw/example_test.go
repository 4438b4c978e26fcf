package draw_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/archdraw/pkg/canvas"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/diagram"
	"github.com/matzehuels/archdraw/pkg/draw"
	"github.com/matzehuels/archdraw/pkg/icons"
	"github.com/matzehuels/archdraw/pkg/layout"
	"github.com/matzehuels/archdraw/pkg/measure"
)

func ExampleDraw() {
	m := diagram.New()
	_ = m.AddNode(diagram.Node{ID: "web", Icon: "server"})
	_ = m.AddNode(diagram.Node{ID: "db", Icon: "mainframe"})
	_ = m.AddEdge(diagram.Edge{ID: "q", Source: "web", SourceDir: diagram.Right, Target: "db", TargetDir: diagram.Left})

	style := config.DefaultStyle()
	meas := measure.ApproxMeasurer{FontSize: style.FontSize, LineHeight: style.LineHeight}
	res, _ := layout.Run(context.Background(), m, style, layout.Fixed{}, meas)

	c := canvas.New()
	report, _ := draw.Draw(c, m, res, draw.Options{Style: style, Icons: icons.Default(), Measurer: meas})

	fmt.Println(c.Registered())
	for _, w := range report.Warnings {
		fmt.Println(w.Code, w.ID)
	}
	// Output:
	// [q web db]
	// unknown_icon db
}
