// Package pipeline runs an ordered list of stages.
//
// Stages are registered once, in the order they must run, and each one may be disabled
// without being removed: a disabled stage stays visible to the pipeline options but is
// skipped at run time.
//
// The pipeline stops on the first error. The error is returned wrapped with the name of the
// failing stage and no later stage runs.
//
// Options implementing model.PipelineOption observe the lifecycle of a run: they are
// initialised by New, notified when a stage is registered and when it completes, and
// finished once every stage succeeded. The measure and drawer packages provide options
// recording stage durations and rendering the executed stages as a graph.
package pipeline
