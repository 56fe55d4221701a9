// Package mapping selects how read libraries are aligned against the assembly.
//
// Each supported tool has a profile describing its flag set, whether it accepts a random
// seed and whether it needs paired reads as two separate files. The Dispatcher turns a tool,
// a read library layout and the input files into an ordered list of commands.
package mapping

import (
	"fmt"
	"strings"
)

// Tool is a read mapping tool selector.
type Tool string

const (
	BBMapFast            Tool = "bbmap_fast"
	BBMapDefault         Tool = "bbmap_default"
	BBMapVerySensitive   Tool = "bbmap_very_sensitive"
	Bowtie2Default       Tool = "bowtie2_default"
	Bowtie2VerySensitive Tool = "bowtie2_very_sensitive"
	Minimap2             Tool = "minimap2"
	Hisat2               Tool = "hisat2"
)

type family string

const (
	bbmapFamily    family = "bbmap"
	bowtie2Family  family = "bowtie2"
	minimap2Family family = "minimap2"
	hisat2Family   family = "hisat2"
)

// Profile describes how a tool is invoked.
type Profile struct {
	Tool   Tool
	family family
	// Seeded is true when the tool accepts a random seed.
	Seeded bool
	// SplitPairs is true when paired reads must be given as two files.
	SplitPairs bool
	// Flags are the sensitivity flags of the profile.
	Flags []string
}

var allTools = []Tool{
	BBMapFast,
	BBMapDefault,
	BBMapVerySensitive,
	Bowtie2Default,
	Bowtie2VerySensitive,
	Minimap2,
	Hisat2,
}

var profiles = map[Tool]Profile{
	BBMapFast:            {Tool: BBMapFast, family: bbmapFamily, Flags: []string{"fast"}},
	BBMapDefault:         {Tool: BBMapDefault, family: bbmapFamily},
	BBMapVerySensitive:   {Tool: BBMapVerySensitive, family: bbmapFamily, Flags: []string{"vslow=true"}},
	Bowtie2Default:       {Tool: Bowtie2Default, family: bowtie2Family, Seeded: true, SplitPairs: true},
	Bowtie2VerySensitive: {Tool: Bowtie2VerySensitive, family: bowtie2Family, Seeded: true, SplitPairs: true, Flags: []string{"--very-sensitive"}},
	Minimap2:             {Tool: Minimap2, family: minimap2Family, Seeded: true, SplitPairs: true},
	Hisat2:               {Tool: Hisat2, family: hisat2Family, Seeded: true, SplitPairs: true},
}

// UnsupportedToolError is returned for a tool name outside the supported set.
type UnsupportedToolError struct {
	Name string
}

func (e *UnsupportedToolError) Error() string {
	names := make([]string, len(allTools))
	for i, tool := range allTools {
		names[i] = string(tool)
	}

	return fmt.Sprintf("unsupported read mapping tool %q, expected one of %s", e.Name, strings.Join(names, ", "))
}

// Tools returns every supported tool.
func Tools() []Tool {
	res := make([]Tool, len(allTools))
	copy(res, allTools)

	return res
}

// ParseTool returns the tool with the given name.
func ParseTool(name string) (Tool, error) {
	tool := Tool(name)
	if _, ok := profiles[tool]; !ok {
		return "", &UnsupportedToolError{Name: name}
	}

	return tool, nil
}

// Profile returns the profile of the tool.
func (t Tool) Profile() (Profile, error) {
	profile, ok := profiles[t]
	if !ok {
		return Profile{}, &UnsupportedToolError{Name: string(t)}
	}

	return profile, nil
}

func (t Tool) String() string {
	return string(t)
}
