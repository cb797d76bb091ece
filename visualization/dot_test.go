package visualization_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
	"github.com/anggasct/signaledit/visualization"
)

func samplePlan() *signal.ControlTrafficSignal {
	const id = mapmodel.IntersectionID(1)
	first := signal.NewCycle(id, 30*time.Second)
	first.EditTurn(mapmodel.TurnID{Parent: id, Src: 111, Dst: 122}, signal.Priority)
	first.EditTurn(mapmodel.TurnID{Parent: id, Src: 111, Dst: 132}, signal.Yield)
	second := signal.NewCycle(id, 15*time.Second)
	return signal.NewControlTrafficSignal(id, first, second)
}

func TestDOTGeneration(t *testing.T) {
	generator := visualization.NewDOTGenerator(samplePlan(), 1)

	dotContent, err := generator.Generate()
	require.NoError(t, err)

	assert.Contains(t, dotContent, "digraph SignalPlan_1")
	assert.Contains(t, dotContent, "\"cycle1\"")
	assert.Contains(t, dotContent, "\"cycle2\"")
	assert.Contains(t, dotContent, "\"cycle1\" -> \"cycle2\";")
	assert.Contains(t, dotContent, "\"cycle2\" -> \"cycle1\" [style=dashed];")
	assert.Contains(t, dotContent, "30s")
	assert.Contains(t, dotContent, "priority:\\n111 -> 122")
	assert.Contains(t, dotContent, "yield:\\n111 -> 132")
	assert.Contains(t, dotContent, "Cycle 2\\n(active)")
	assert.NotContains(t, dotContent, "Cycle 1\\n(active)")
}

func TestDOTGeneration_Options(t *testing.T) {
	opts := visualization.DefaultDOTOptions()
	opts.ShowTurns = false
	opts.ShowDurations = false
	opts.RankDirection = "TB"

	dotContent, err := visualization.NewDOTGenerator(samplePlan(), -1, opts).Generate()
	require.NoError(t, err)

	assert.Contains(t, dotContent, "rankdir=TB;")
	assert.NotContains(t, dotContent, "priority:")
	assert.NotContains(t, dotContent, "30s")
	assert.NotContains(t, dotContent, "(active)")
	// the empty second cycle is flagged
	assert.Contains(t, dotContent, "fillcolor=lightcoral label=\"Cycle 2\"")
}

func TestDOTGeneration_SingleCycleLoops(t *testing.T) {
	plan := signal.NewControlTrafficSignal(7, signal.NewCycle(7, signal.DefaultCycleDuration))

	dotContent, err := visualization.NewDOTGenerator(plan, 0).Generate()
	require.NoError(t, err)
	assert.Contains(t, dotContent, "\"cycle1\" -> \"cycle1\" [style=dashed];")
}

func TestDOTGeneration_InvalidPlan(t *testing.T) {
	_, err := visualization.NewDOTGenerator(nil, 0).Generate()
	assert.Error(t, err)

	_, err = visualization.NewDOTGenerator(signal.NewControlTrafficSignal(1), 0).Generate()
	assert.Error(t, err)
}

func TestDOTGenerator_GenerateToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.dot")

	err := visualization.NewDOTGenerator(samplePlan(), 0).GenerateToFile(path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "digraph SignalPlan_1")
}

func TestSVGGenerator(t *testing.T) {
	if _, err := exec.LookPath("dot"); err != nil {
		t.Skip("Graphviz is not installed")
	}

	svgContent, err := visualization.NewSVGGenerator(samplePlan(), 0).Generate()
	require.NoError(t, err)
	assert.Contains(t, svgContent, "<svg")

	svgContent, err = visualization.NewDOTGenerator(samplePlan(), 0).GenerateSVG()
	require.NoError(t, err)
	assert.NotEmpty(t, svgContent)
}

func TestPriorityColor(t *testing.T) {
	assert.Equal(t, visualization.PriorityGreen, visualization.PriorityColor(signal.Priority))
	assert.Equal(t, visualization.YieldPink, visualization.PriorityColor(signal.Yield))
	assert.Equal(t, visualization.BannedBlack, visualization.PriorityColor(signal.Banned))

	assert.Panics(t, func() {
		visualization.PriorityColor(signal.TurnPriority(9))
	})
}
