package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/pipeline/measure"
	"github.com/askiada/go-anvio/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
	last      *model.StageInfo
}

func (pd *pipelineDrawer) New() error {
	pd.startTime = time.Now()
	pd.last = model.StartStage

	err := pd.AddStage(model.StartStage.Name, true)
	if err != nil {
		return errors.Wrap(err, "unable to add start stage to drawer")
	}
	err = pd.AddStage(model.EndStage.Name, true)
	if err != nil {
		return errors.Wrap(err, "unable to add end stage to drawer")
	}

	return nil
}

// PrepareStage links a disabled stage to its parent as a dead end, so the enabled chain
// stays readable.
func (pd *pipelineDrawer) PrepareStage(parentStage, stage *model.StageInfo) error {
	err := pd.AddStage(stage.Name, stage.Enabled)
	if err != nil {
		return err
	}
	err = pd.AddLink(parentStage.Name, stage.Name)
	if err != nil {
		return err
	}
	if stage.Enabled {
		pd.last = stage
	}

	return nil
}

func (pd *pipelineDrawer) OnStageOutput(_, _ *model.StageInfo, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) Finish() error {
	err := pd.AddLink(pd.last.Name, model.EndStage.Name)
	if err != nil {
		return errors.Wrap(err, "unable to link last stage")
	}

	if pd.m != nil {
		err := pd.SetTotalTime(model.EndStage.Name, pd.startTime)
		if err != nil {
			return errors.Wrap(err, "unable to set total time")
		}
		err = pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the stages of the pipeline once it finishes. measure is optional.
func PipelineDrawer(drawer Drawer, measure measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: measure}
}
