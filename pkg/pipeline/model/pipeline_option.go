package model

import "time"

// PipelineOption defines the interface for pipeline options.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error
	// PrepareStage runs when a stage is registered. parentStage is the last enabled stage
	// registered before it, or StartStage.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs every time a stage completes successfully.
	OnStageOutput(parentStage, stage *StageInfo, computationDuration time.Duration) error
	// Finish runs after the pipeline is finished.
	Finish() error
}
