package anvio

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/command"
	"github.com/askiada/go-anvio/pkg/kbase"
	"github.com/askiada/go-anvio/pkg/mapping"
	"github.com/askiada/go-anvio/pkg/pipeline"
	"github.com/askiada/go-anvio/pkg/pipeline/model"
	"github.com/askiada/go-anvio/pkg/report"
	"github.com/askiada/go-anvio/pkg/runner"
)

const (
	reportPrefix        = "kb_anvio_report_"
	htmlWindowHeight    = 266
	directHTMLLinkIndex = 0
)

// Output is the result of a successful run.
type Output struct {
	ResultDirectory string `json:"result_directory"`
	ReportName      string `json:"report_name"`
	ReportRef       string `json:"report_ref"`
}

// App runs the workflow.
type App struct {
	Assemblies kbase.AssemblyService
	Files      kbase.FileService
	Reads      kbase.ReadsService
	Reports    kbase.ReportService
	Executor   runner.Executor
	// Dispatcher builds the mapping commands. It is derived from Settings when nil.
	Dispatcher *mapping.Dispatcher
	// Packager packages the result directory. It is derived from Settings when nil.
	Packager *report.Packager
	Settings Settings
	// Options are attached to the stage pipeline of every run.
	Options []model.PipelineOption
}

// NewApp creates an app whose collaborators are all served by services.
func NewApp(services kbase.Services, executor runner.Executor, settings Settings, opts ...model.PipelineOption) *App {
	return &App{
		Assemblies: services,
		Files:      services,
		Reads:      services,
		Reports:    services,
		Executor:   executor,
		Settings:   settings,
		Options:    opts,
	}
}

// run is one execution of the workflow.
type run struct {
	app        *App
	cfg        RunConfig
	settings   Settings
	dispatcher *mapping.Dispatcher
	packager   *report.Packager
	state      *State
	bundle     *report.Bundle
	output     *Output
}

// Run validates cfg, runs every stage in order in a new working directory and creates the
// report. The first failing stage aborts the run; files produced so far are left in place.
func (a *App) Run(ctx context.Context, cfg RunConfig) (*Output, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	err = a.Settings.Validate()
	if err != nil {
		return nil, err
	}
	tool, _ := mapping.ParseTool(string(cfg.ReadMappingTool))
	cfg.ReadMappingTool = tool

	r := &run{
		app:      a,
		cfg:      cfg,
		settings: a.Settings.withDefaults(),
	}
	r.dispatcher = a.Dispatcher
	if r.dispatcher == nil {
		r.dispatcher = &mapping.Dispatcher{
			Threads:     r.settings.MappingThreads,
			BBMapMemory: r.settings.BBMapMemory,
			Seed:        mapping.RandomSeed,
		}
	}
	r.packager = a.Packager
	if r.packager == nil {
		r.packager = &report.Packager{Scratch: r.settings.Scratch, Template: r.settings.Template}
	}

	workDir := filepath.Join(r.settings.Scratch, "anvio_"+uuid.NewString())
	err = os.MkdirAll(workDir, 0o755)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create working directory %s", workDir)
	}
	r.state = &State{
		WorkDir:   workDir,
		ResultDir: filepath.Join(workDir, r.settings.ResultDirName),
		ReadCount: CountReads(len(cfg.ReadsList)),
	}
	log.Printf("running anvio on %s with %d read libraries (%s) in %s",
		cfg.AssemblyRef, len(cfg.ReadsList), r.state.ReadCount, workDir)

	pipe, err := r.build()
	if err != nil {
		return nil, err
	}
	err = pipe.Run(ctx)
	if err != nil {
		log.Error.Printf("anvio run failed: %v", err)
		return nil, err
	}

	return r.output, nil
}

// build registers the stages of the run in execution order.
func (r *run) build() (*pipeline.Pipeline, error) {
	pipe, err := pipeline.New(r.app.Options...)
	if err != nil {
		return nil, err
	}

	type stage struct {
		name    string
		fn      pipeline.StageFn
		enabled bool
	}
	stages := []stage{
		{"fetch-assembly", r.fetchAssembly, true},
		{"reformat-fasta", r.reformatFasta, true},
		{"gen-contigs-db", r.genContigsDB, true},
	}
	for _, ann := range r.settings.annotations() {
		stages = append(stages, stage{ann.Name, r.annotate(ann), ann.Enabled})
	}
	stages = append(stages, stage{"stage-reads", r.stageReads, r.state.ReadCount != NoReads})
	for i := range r.cfg.ReadsList {
		stages = append(stages,
			stage{stageName("map-reads", i), r.mapReads(i), true},
			stage{stageName("sort-bam", i), r.sortBam(i), true},
			stage{stageName("init-bam", i), r.initBam(i), true},
			stage{stageName("profile", i), r.profile(i), true},
		)
	}
	stages = append(stages,
		stage{"merge-profiles", r.mergeProfiles, r.state.ReadCount == MultipleReads},
		stage{"blank-profile", r.blankProfile, r.state.ReadCount == NoReads},
		stage{"collect-results", r.collectResults, true},
		stage{"package-results", r.packageResults, true},
		stage{"create-report", r.createReport, true},
	)

	for _, st := range stages {
		err := pipeline.AddStage(pipe, st.name, st.fn, pipeline.StageEnabled(st.enabled))
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add stage %s", st.name)
		}
	}

	return pipe, nil
}

func (r *run) exec(ctx context.Context, cmd command.Command) error {
	_, err := r.app.Executor.Run(ctx, r.state.WorkDir, cmd)
	return err
}

func (r *run) execSequence(ctx context.Context, seq command.Sequence) error {
	_, err := r.app.Executor.RunSequence(ctx, r.state.WorkDir, seq)
	return err
}
