package anvio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/command"
	"github.com/askiada/go-anvio/pkg/kbase"
	"github.com/askiada/go-anvio/pkg/pipeline"
)

// stageName names the stage of the i-th read library, counting from 1.
func stageName(prefix string, i int) string {
	return fmt.Sprintf("%s-%d", prefix, i+1)
}

func (r *run) fetchAssembly(ctx context.Context) error {
	path, err := r.app.Assemblies.GetAssemblyAsFasta(ctx, r.cfg.AssemblyRef)
	if err != nil {
		return errors.Wrapf(err, "unable to get assembly %s", r.cfg.AssemblyRef)
	}
	path, err = r.app.Files.UnpackFile(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "unable to unpack assembly %s", path)
	}
	r.state.ContigsFile = path
	log.Printf("assembly %s fetched to %s", r.cfg.AssemblyRef, path)

	return nil
}

func (r *run) reformatFasta(ctx context.Context) error {
	out := command.ReformattedName(r.state.ContigsFile)
	err := r.exec(ctx, command.ReformatFasta(r.state.ContigsFile, out, r.cfg.MinContigLength))
	if err != nil {
		return err
	}
	r.state.ReformattedFile = filepath.Join(r.state.WorkDir, out)

	return nil
}

func (r *run) genContigsDB(ctx context.Context) error {
	cmd := command.GenContigsDB(filepath.Base(r.state.ReformattedFile),
		r.cfg.ContigSplitSize, r.cfg.KmerSize, r.settings.AnvioThreads)
	err := r.exec(ctx, cmd)
	if err != nil {
		return err
	}
	r.state.ContigsDB = filepath.Join(r.state.WorkDir, command.ContigsDB)

	return nil
}

func (r *run) annotate(ann Annotation) pipeline.StageFn {
	return func(ctx context.Context) error {
		return r.execSequence(ctx, ann.Build(r.settings))
	}
}

// stageReads downloads the read libraries, keeping the order of the reads list. Libraries whose
// reads share a file name get their position appended to their SAM name.
func (r *run) stageReads(ctx context.Context) error {
	libs, err := r.app.Reads.DownloadReads(ctx, r.cfg.ReadsList)
	if err != nil {
		return errors.Wrap(err, "unable to download reads")
	}

	taken := make(map[string]struct{}, len(r.cfg.ReadsList))
	r.state.Libraries = make([]kbase.ReadLibrary, 0, len(r.cfg.ReadsList))
	r.state.SamNames = make([]string, 0, len(r.cfg.ReadsList))
	for i, ref := range r.cfg.ReadsList {
		lib, ok := libs[ref]
		if !ok {
			return errors.Wrap(ErrMissingLibrary, ref)
		}

		sam := command.SamName(lib.Fwd)
		for n := i + 1; ; n++ {
			if _, ok := taken[sam]; !ok {
				break
			}
			sam = command.IndexedSamName(lib.Fwd, n)
		}
		taken[sam] = struct{}{}

		r.state.Libraries = append(r.state.Libraries, lib)
		r.state.SamNames = append(r.state.SamNames, sam)
		log.Printf("read library %s staged as %s (%s), mapped to %s", ref, lib.Fwd, lib.Layout, sam)
	}

	return nil
}

func (r *run) mapReads(i int) pipeline.StageFn {
	return func(ctx context.Context) error {
		lib := r.state.Libraries[i]
		files := r.state.library(i)
		plan, err := r.dispatcher.Plan(r.cfg.ReadMappingTool, lib.Input(), r.state.ReformattedFile, files.sam)
		if err != nil {
			return errors.Wrapf(err, "unable to plan mapping of %s", lib.Ref)
		}

		return r.execSequence(ctx, plan.Commands())
	}
}

func (r *run) sortBam(i int) pipeline.StageFn {
	return func(ctx context.Context) error {
		files := r.state.library(i)
		err := r.exec(ctx, command.SamToSortedBam(files.sam, files.sortedBam))
		if err != nil {
			return err
		}

		info, err := os.Stat(files.sortedBam)
		if err != nil || info.Size() == 0 {
			return &EmptyOutputError{Path: files.sortedBam}
		}

		err = r.exec(ctx, command.IndexBam(files.sortedBam))
		if err != nil {
			return err
		}
		r.state.SortedBams = append(r.state.SortedBams, files.sortedBam)

		return nil
	}
}

func (r *run) initBam(i int) pipeline.StageFn {
	return func(ctx context.Context) error {
		files := r.state.library(i)
		return r.exec(ctx, command.InitBam(files.sortedBam, files.rawBam, r.settings.AnvioThreads))
	}
}

func (r *run) profile(i int) pipeline.StageFn {
	return func(ctx context.Context) error {
		files := r.state.library(i)
		err := r.exec(ctx, command.Profile(files.rawBam, command.ContigsDB, files.profileDir, files.sample, r.settings.AnvioThreads))
		if err != nil {
			return err
		}
		r.state.ProfileDirs = append(r.state.ProfileDirs, files.profileDir)

		return nil
	}
}

func (r *run) mergeProfiles(ctx context.Context) error {
	return r.exec(ctx, command.Merge(r.state.ProfileDirs, command.ContigsDB))
}

func (r *run) blankProfile(ctx context.Context) error {
	return r.exec(ctx, command.BlankProfile(command.ContigsDB))
}

// collectResults moves the contigs database, the reformatted assembly and the profile of the
// run into the result directory.
func (r *run) collectResults(context.Context) error {
	err := os.MkdirAll(r.state.ResultDir, 0o755)
	if err != nil {
		return errors.Wrapf(err, "unable to create result directory %s", r.state.ResultDir)
	}

	profile, err := r.state.profileArtifact()
	if err != nil {
		return err
	}
	for _, src := range []string{r.state.ContigsDB, r.state.ReformattedFile, profile} {
		dst := filepath.Join(r.state.ResultDir, filepath.Base(src))
		err := os.Rename(src, dst)
		if err != nil {
			return errors.Wrapf(err, "unable to move %s to result directory", src)
		}
	}
	r.state.ContigsDB = filepath.Join(r.state.ResultDir, filepath.Base(r.state.ContigsDB))
	r.state.ReformattedFile = filepath.Join(r.state.ResultDir, filepath.Base(r.state.ReformattedFile))
	log.Printf("saved result files to %s", r.state.ResultDir)

	return nil
}

func (r *run) packageResults(ctx context.Context) error {
	bundle, err := r.packager.Package(ctx, r.state.ResultDir, r.state.ReformattedFile)
	if err != nil {
		return err
	}
	r.bundle = bundle

	return nil
}

func (r *run) createReport(ctx context.Context) error {
	params := kbase.ReportParams{
		WorkspaceName:       r.cfg.WorkspaceName,
		FileLinks:           r.bundle.FileLinks(),
		HTMLLinks:           r.bundle.HTMLLinks(),
		DirectHTMLLinkIndex: directHTMLLinkIndex,
		HTMLWindowHeight:    htmlWindowHeight,
		ReportObjectName:    reportPrefix + uuid.NewString(),
	}
	info, err := r.app.Reports.CreateExtendedReport(ctx, params)
	if err != nil {
		return errors.Wrap(err, "unable to create report")
	}

	r.output = &Output{
		ResultDirectory: r.state.ResultDir,
		ReportName:      info.Name,
		ReportRef:       info.Ref,
	}
	log.Printf("report %s created (%s)", info.Name, info.Ref)

	return nil
}
