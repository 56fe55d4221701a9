package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-anvio/internal/store"
	"github.com/askiada/go-anvio/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that creates a DOT file with the pipeline graph.
type DOTDrawer struct {
	store       store.CustomStore[string, string]
	graph       graph.Graph[string, string]
	dotFileName string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer(dotFileName string) *DOTDrawer {
	st := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		dotFileName: dotFileName,
		store:       st,
		graph:       graph.NewWithStore[string, string](graph.StringHash, st, graph.Directed(), graph.PreventCycles()),
	}
}

// AddStage adds a stage to the pipeline graph.
func (d *DOTDrawer) AddStage(name string, enabled bool) error {
	opts := []func(*graph.VertexProperties){graph.VertexAttribute("shape", "box")}
	if !enabled {
		opts = append(opts, graph.VertexAttribute("style", "dashed"), graph.VertexAttribute("fontcolor", "grey"))
	}

	err := d.graph.AddVertex(name, opts...)
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between parent and children stages.
func (d *DOTDrawer) AddLink(parentName, childrenName string) error {
	err := d.graph.AddEdge(parentName, childrenName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childrenName)
	}

	return nil
}

// Draw creates a DOT file with the pipeline graph.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.dotFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.dotFileName)
	}
	defer file.Close()

	err = d.dot(file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.dotFileName)
	}

	return nil
}

// SetTotalTime sets the total time for the stage.
func (d *DOTDrawer) SetTotalTime(stageName string, startTime time.Time) error {
	err := d.store.UpdateVertex(stageName, graph.VertexAttribute("xlabel", measure.Round(time.Since(startTime)).String()))
	if err != nil {
		return errors.Wrapf(err, "unable to set total time of %s", stageName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure colours every measured stage from blue (fastest) to red (slowest) and labels
// it with its duration.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()
	durations := make([]time.Duration, 0, len(metrics))
	for _, mt := range metrics {
		if mt.Count() == 0 {
			continue
		}
		durations = append(durations, mt.AVGDuration())
	}
	if len(durations) == 0 {
		return nil
	}
	sort.Slice(durations, func(i, j int) bool {
		return durations[i] < durations[j]
	})
	minValue, maxValue := durations[0], durations[len(durations)-1]

	for name, mt := range metrics {
		if mt.Count() == 0 {
			continue
		}
		avg := mt.AVGDuration()
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}
		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		err = d.store.UpdateVertex(name,
			graph.VertexAttribute("xlabel", avg.String()+", end: "+mt.GetEndDuration().String()),
			graph.VertexAttribute("color", colour.ToHEX().String()),
		)
		if err != nil && !errors.Is(err, graph.ErrVertexNotFound) {
			return errors.Wrap(err, "unable to update metrics")
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func (d *DOTDrawer) dot(wrt io.Writer) error {
	desc, err := d.generateDOT()
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// generateDOT lists the stages in registration order so the output is stable.
func (d *DOTDrawer) generateDOT() (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "TB"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	vertices, err := d.store.ListVertices()
	if err != nil {
		return desc, errors.Wrap(err, "unable to list vertices")
	}
	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range vertices {
		_, sourceProperties, err := d.graph.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		htmlAttributes := make(map[string]string)
		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)
				continue
			}
			attributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		for _, target := range vertices {
			edge, ok := adjacencyMap[vertex][target]
			if !ok {
				continue
			}
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
