package measure

import (
	"time"

	"github.com/askiada/go-anvio/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
	startTime time.Time
}

func (pm *pipelineMeasure) New() error {
	pm.startTime = time.Now()
	pm.AddMetric(model.StartStage.Name)
	pm.AddMetric(model.EndStage.Name)

	return nil
}

func (pm *pipelineMeasure) PrepareStage(parentStage, stage *model.StageInfo) error {
	if !stage.Enabled {
		return nil
	}
	pm.AddMetric(stage.Name)

	return nil
}

func (pm *pipelineMeasure) OnStageOutput(parentStage, stage *model.StageInfo, computationDuration time.Duration) error {
	mt := pm.GetMetric(stage.Name)
	if mt == nil {
		mt = pm.AddMetric(stage.Name)
	}
	mt.AddDuration(computationDuration)
	mt.SetEndDuration(time.Since(pm.startTime))

	return nil
}

func (pm *pipelineMeasure) Finish() error {
	pm.GetMetric(model.EndStage.Name).SetEndDuration(time.Since(pm.startTime))

	return nil
}

// PipelineMeasure records the duration of every stage into measure.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{Measure: measure}
}
