// Package visualization renders signal plans: turn colors for the map view and
// Graphviz diagrams of the cycle sequence.
package visualization

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

var (
	// PriorityGreen is drawn for turns with right-of-way
	PriorityGreen = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	// YieldPink is drawn for yielding turns
	YieldPink = color.RGBA{R: 255, G: 105, B: 180, A: 255}
	// BannedBlack is drawn for banned turns
	BannedBlack = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// PriorityColor returns the color a turn is drawn with for the given priority
func PriorityColor(p signal.TurnPriority) color.RGBA {
	switch p {
	case signal.Priority:
		return PriorityGreen
	case signal.Yield:
		return YieldPink
	case signal.Banned:
		return BannedBlack
	default:
		panic(signal.NewInvariantError(signal.ErrCodeUnknownPriority, 0, fmt.Sprintf("no color for %s", p)))
	}
}

// DOTGenerator generates Graphviz DOT format representations of signal plans
type DOTGenerator struct {
	plan    *signal.ControlTrafficSignal
	active  int
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowTurns     bool
	ShowDurations bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
	ActiveColor   string
	CycleColor    string
	EmptyColor    string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowTurns:     true,
		ShowDurations: true,
		RankDirection: "LR",
		NodeShape:     "box",
		ActiveColor:   "lightgreen",
		CycleColor:    "lightblue",
		EmptyColor:    "lightcoral",
	}
}

// NewDOTGenerator creates a new DOT generator for a plan. active is the index
// of the highlighted cycle; pass -1 for none.
func NewDOTGenerator(plan *signal.ControlTrafficSignal, active int, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		plan:    plan,
		active:  active,
		options: opts,
	}
}

// Generate creates a DOT representation of the plan
func (g *DOTGenerator) Generate() (string, error) {
	if g.plan == nil {
		return "", fmt.Errorf("no signal plan to render")
	}
	if err := g.plan.Validate(); err != nil {
		return "", fmt.Errorf("failed to render plan: %w", err)
	}

	var dot strings.Builder

	fmt.Fprintf(&dot, "digraph SignalPlan_%d {\n", int(g.plan.ID))
	fmt.Fprintf(&dot, "  rankdir=%s;\n", g.options.RankDirection)
	fmt.Fprintf(&dot, "  node [shape=%s];\n", g.options.NodeShape)
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateCycles(&dot)
	g.generateSequence(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

func cycleNode(i int) string {
	return fmt.Sprintf("cycle%d", i+1)
}

func (g *DOTGenerator) generateCycles(dot *strings.Builder) {
	dot.WriteString("  // Cycles\n")

	for i, c := range g.plan.Cycles {
		fillColor := g.options.CycleColor
		if c.IsEmpty() {
			fillColor = g.options.EmptyColor
		}
		if i == g.active {
			fillColor = g.options.ActiveColor
		}

		label := fmt.Sprintf("Cycle %d", i+1)
		if i == g.active {
			label += "\\n(active)"
		}
		if g.options.ShowDurations {
			label += fmt.Sprintf("\\n%ds", c.Seconds())
		}
		if g.options.ShowTurns {
			label += turnLines("priority", c.PriorityTurns())
			label += turnLines("yield", c.YieldTurns())
		}

		fmt.Fprintf(dot, "  \"%s\" [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
			cycleNode(i), fillColor, label)
	}
}

func turnLines(heading string, turns []mapmodel.TurnID) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\\n%s:", heading)
	for _, t := range turns {
		fmt.Fprintf(&b, "\\n%d -> %d", int(t.Src), int(t.Dst))
	}
	return b.String()
}

// generateSequence links cycles in execution order, wrapping back to the first
func (g *DOTGenerator) generateSequence(dot *strings.Builder) {
	dot.WriteString("  // Sequence\n")

	n := g.plan.Len()
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		if next == 0 {
			fmt.Fprintf(dot, "  \"%s\" -> \"%s\" [style=dashed];\n", cycleNode(i), cycleNode(next))
			continue
		}
		fmt.Fprintf(dot, "  \"%s\" -> \"%s\";\n", cycleNode(i), cycleNode(next))
	}
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(plan *signal.ControlTrafficSignal, active int, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(plan, active, options...),
	}
}

// Generate creates an SVG representation of the plan
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}

// GenerateSVG creates an SVG representation of the plan
func (g *DOTGenerator) GenerateSVG() (string, error) {
	svgGen := &SVGGenerator{dotGenerator: g}
	return svgGen.Generate()
}
