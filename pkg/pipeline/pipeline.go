package pipeline

import (
	"context"
	"time"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/pipeline/model"
)

// StageFn is the work of a stage.
type StageFn func(ctx context.Context) error

type stage struct {
	info *model.StageInfo
	fn   StageFn
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	opts      []model.PipelineOption
	stages    []*stage
	names     map[string]struct{}
	last      *model.StageInfo
	startTime time.Time
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		opts:      opts,
		names:     make(map[string]struct{}),
		last:      model.StartStage,
		startTime: time.Now(),
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// AddStage registers a stage after every stage already registered.
func AddStage(p *Pipeline, name string, fn StageFn, opts ...StageOption) error {
	if p == nil {
		return ErrPipelineMustBeSet
	}
	if fn == nil {
		return ErrStageFnMustBeSet
	}
	if _, ok := p.names[name]; ok {
		return errors.Wrap(ErrDuplicateStage, name)
	}

	st := &stage{
		info: &model.StageInfo{
			Name:    name,
			Index:   len(p.stages),
			Enabled: true,
		},
		fn: fn,
	}
	for _, opt := range opts {
		opt(st)
	}

	for _, opt := range p.opts {
		err := opt.PrepareStage(p.last, st.info)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	p.names[name] = struct{}{}
	p.stages = append(p.stages, st)
	if st.info.Enabled {
		p.last = st.info
	}

	return nil
}

// Stages returns the registered stages in execution order.
func (p *Pipeline) Stages() []model.StageInfo {
	res := make([]model.StageInfo, len(p.stages))
	for i, st := range p.stages {
		res[i] = *st.info
	}

	return res
}

// Run executes the enabled stages in order and stops on the first error.
func (p *Pipeline) Run(ctx context.Context) error {
	parent := model.StartStage
	for _, st := range p.stages {
		if !st.info.Enabled {
			log.Printf("stage %s is disabled, skipping", st.info.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, st.info.Name)
		}

		log.Debug.Printf("stage %s starting", st.info.Name)
		startFn := time.Now()
		err := st.fn(ctx)
		if err != nil {
			return errors.Wrap(err, st.info.Name)
		}
		endFn := time.Since(startFn)
		log.Debug.Printf("stage %s done in %s", st.info.Name, endFn)

		for _, opt := range p.opts {
			err := opt.OnStageOutput(parent, st.info, endFn)
			if err != nil {
				return errors.Wrap(err, "unable to run stage output function")
			}
		}
		parent = st.info
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	log.Printf("pipeline finished in %s", time.Since(p.startTime).Round(time.Millisecond))

	return nil
}
