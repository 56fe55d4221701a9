package pipeline

import "github.com/pkg/errors"

var (
	ErrPipelineMustBeSet = errors.New("p must be set")
	ErrStageFnMustBeSet  = errors.New("stage function must be set")
	ErrDuplicateStage    = errors.New("stage already registered")
)
