package anvio

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/command"
	"github.com/askiada/go-anvio/pkg/kbase"
)

// State is the mutable state of one run. Paths are absolute.
type State struct {
	WorkDir   string
	ResultDir string
	ReadCount ReadCount

	ContigsFile     string
	ReformattedFile string
	ContigsDB       string

	Libraries []kbase.ReadLibrary
	// SamNames holds the SAM file name of each library, unique within the run.
	SamNames    []string
	SortedBams  []string
	ProfileDirs []string
}

// libraryFiles are the files produced for one read library. Only sortedBam and rawBam are absolute.
type libraryFiles struct {
	sam        string
	sortedBam  string
	rawBam     string
	profileDir string
	sample     string
}

func (s *State) library(i int) libraryFiles {
	sam := s.SamNames[i]
	sorted := command.SortedBamName(s.WorkDir, sam)

	return libraryFiles{
		sam:        sam,
		sortedBam:  sorted,
		rawBam:     command.RawBamName(sorted),
		profileDir: command.ProfileDirName(sam),
		sample:     command.SampleName(strings.TrimSuffix(sam, ".sam")),
	}
}

// profileArtifact returns the profile directory kept in the result directory.
func (s *State) profileArtifact() (string, error) {
	switch s.ReadCount {
	case NoReads:
		return filepath.Join(s.WorkDir, command.BlankProfileDir), nil
	case SingleRead:
		if len(s.ProfileDirs) != 1 {
			return "", errors.Errorf("expected 1 profile, got %d", len(s.ProfileDirs))
		}
		return filepath.Join(s.WorkDir, s.ProfileDirs[0]), nil
	case MultipleReads:
		return filepath.Join(s.WorkDir, command.MergedProfileDir), nil
	}

	return "", errors.Errorf("unknown read count %s", s.ReadCount)
}
