package anvio

import (
	"fmt"

	"github.com/askiada/go-anvio/pkg/mapping"
)

// RunConfig holds the parameters of one run.
type RunConfig struct {
	AssemblyRef     string       `json:"assembly_ref" mapstructure:"assembly_ref"`
	WorkspaceName   string       `json:"workspace_name" mapstructure:"workspace_name"`
	ReadsList       []string     `json:"reads_list" mapstructure:"reads_list"`
	ReadMappingTool mapping.Tool `json:"read_mapping_tool" mapstructure:"read_mapping_tool"`
	KmerSize        int          `json:"kmer_size" mapstructure:"kmer_size"`
	ContigSplitSize int          `json:"contig_split_size" mapstructure:"contig_split_size"`
	MinContigLength int          `json:"min_contig_length" mapstructure:"min_contig_length"`
}

// RequiredParams lists the keys every run parameter set must define. reads_list may be empty.
var RequiredParams = []string{
	"assembly_ref",
	"workspace_name",
	"reads_list",
	"read_mapping_tool",
	"kmer_size",
	"contig_split_size",
	"min_contig_length",
}

// ValidationError is returned for a missing or invalid parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%q parameter is required, but missing", e.Field)
	}

	return fmt.Sprintf("%q parameter is invalid: %s", e.Field, e.Reason)
}

// Validate checks the parameters before anything runs.
func (c *RunConfig) Validate() error {
	if c.AssemblyRef == "" {
		return &ValidationError{Field: "assembly_ref"}
	}
	if c.WorkspaceName == "" {
		return &ValidationError{Field: "workspace_name"}
	}
	if c.ReadMappingTool == "" {
		return &ValidationError{Field: "read_mapping_tool"}
	}
	_, err := mapping.ParseTool(string(c.ReadMappingTool))
	if err != nil {
		return err
	}
	for i, ref := range c.ReadsList {
		if ref == "" {
			return &ValidationError{Field: "reads_list", Reason: fmt.Sprintf("entry %d is empty", i)}
		}
	}

	positive := []struct {
		field string
		value int
	}{
		{"kmer_size", c.KmerSize},
		{"contig_split_size", c.ContigSplitSize},
		{"min_contig_length", c.MinContigLength},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ValidationError{Field: p.field, Reason: fmt.Sprintf("must be positive, got %d", p.value)}
		}
	}

	return nil
}

// ReadCount is the number of read libraries of a run as far as the workflow is concerned.
type ReadCount int

const (
	// NoReads runs build a blank profile.
	NoReads ReadCount = iota
	// SingleRead runs keep the profile of their only library.
	SingleRead
	// MultipleReads runs merge the profiles of every library.
	MultipleReads
)

// CountReads classifies a number of read libraries.
func CountReads(n int) ReadCount {
	switch {
	case n == 0:
		return NoReads
	case n == 1:
		return SingleRead
	default:
		return MultipleReads
	}
}

func (r ReadCount) String() string {
	switch r {
	case NoReads:
		return "none"
	case SingleRead:
		return "single"
	case MultipleReads:
		return "multiple"
	}

	return fmt.Sprintf("ReadCount(%d)", int(r))
}
