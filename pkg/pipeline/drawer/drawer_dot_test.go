package drawer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-anvio/pkg/pipeline"
	"github.com/askiada/go-anvio/pkg/pipeline/drawer"
	"github.com/askiada/go-anvio/pkg/pipeline/measure"
)

func TestDOTDrawerDraw(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "graph.dot")
	d := drawer.NewDOTDrawer(fileName)
	require.NoError(t, d.AddStage("start", true))
	require.NoError(t, d.AddStage("gen-contigs-db", true))
	require.NoError(t, d.AddStage("run-kegg-kofams", false))
	require.NoError(t, d.AddLink("start", "gen-contigs-db"))
	require.NoError(t, d.AddLink("start", "run-kegg-kofams"))
	require.NoError(t, d.Draw())

	got, err := os.ReadFile(fileName)
	require.NoError(t, err)
	content := string(got)
	assert.True(t, strings.HasPrefix(content, "strict digraph {"))
	assert.Contains(t, content, `"start" -> "gen-contigs-db"`)
	assert.Contains(t, content, `"start" -> "run-kegg-kofams"`)
	assert.Contains(t, content, `style="dashed"`)
	assert.Less(t, strings.Index(content, `"gen-contigs-db" [`), strings.Index(content, `"run-kegg-kofams" [`))
}

func TestDOTDrawerErrors(t *testing.T) {
	t.Parallel()

	d := drawer.NewDOTDrawer(filepath.Join(t.TempDir(), "graph.dot"))
	require.NoError(t, d.AddStage("a", true))
	require.NoError(t, d.AddStage("b", true))

	assert.Error(t, d.AddStage("a", true))
	assert.Error(t, d.AddLink("a", "missing"))
	require.NoError(t, d.AddLink("a", "b"))
	assert.Error(t, d.AddLink("b", "a"))
	assert.Error(t, d.SetTotalTime("missing", time.Now()))
}

func TestDOTDrawerAddMeasure(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "graph.dot")
	d := drawer.NewDOTDrawer(fileName)
	require.NoError(t, d.AddStage("fast", true))
	require.NoError(t, d.AddStage("slow", true))

	m := measure.NewDefaultMeasure()
	m.AddMetric("fast").AddDuration(time.Second)
	m.AddMetric("slow").AddDuration(3 * time.Second)
	m.AddMetric("unknown").AddDuration(time.Second)
	m.AddMetric("never-ran")

	require.NoError(t, d.AddMeasure(m))
	require.NoError(t, d.Draw())

	got, err := os.ReadFile(fileName)
	require.NoError(t, err)
	content := string(got)
	assert.Equal(t, 2, strings.Count(content, `color="#`))
	assert.Contains(t, content, "3s, end: 0s")
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "graph.dot")
	m := measure.NewDefaultMeasure()
	pipe, err := pipeline.New(
		measure.PipelineMeasure(m),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), m),
	)
	require.NoError(t, err)

	noop := func(context.Context) error { return nil }
	require.NoError(t, pipeline.AddStage(pipe, "fetch-assembly", noop))
	require.NoError(t, pipeline.AddStage(pipe, "scan-trnas", noop, pipeline.StageEnabled(false)))
	require.NoError(t, pipeline.AddStage(pipe, "gen-contigs-db", noop))
	require.NoError(t, pipe.Run(context.Background()))

	got, err := os.ReadFile(fileName)
	require.NoError(t, err)
	content := string(got)
	assert.Contains(t, content, `"start" -> "fetch-assembly"`)
	assert.Contains(t, content, `"fetch-assembly" -> "scan-trnas"`)
	assert.Contains(t, content, `"fetch-assembly" -> "gen-contigs-db"`)
	assert.Contains(t, content, `"gen-contigs-db" -> "end"`)
	assert.NotContains(t, content, `"scan-trnas" -> "gen-contigs-db"`)
}

func TestPipelineDrawerNoStages(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "graph.dot")
	pipe, err := pipeline.New(drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), nil))
	require.NoError(t, err)
	require.NoError(t, pipe.Run(context.Background()))

	got, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"start" -> "end"`)
}
