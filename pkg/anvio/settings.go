package anvio

import (
	"fmt"
	"sort"

	"github.com/askiada/go-anvio/pkg/command"
	"github.com/askiada/go-anvio/pkg/mapping"
)

// Settings are the service level settings shared by every run.
type Settings struct {
	// Scratch holds the working directory of every run and the packaged outputs.
	Scratch       string `mapstructure:"scratch"`
	ResultDirName string `mapstructure:"result_dir_name"`
	// AnvioThreads is given to the database, bam and profile programs.
	AnvioThreads int `mapstructure:"anvio_threads"`
	// AnnotationThreads is given to the annotation programs.
	AnnotationThreads int    `mapstructure:"annotation_threads"`
	MappingThreads    int    `mapstructure:"mapping_threads"`
	BBMapMemory       string `mapstructure:"bbmap_memory"`
	COGDataDir        string `mapstructure:"cog_data_dir"`
	PfamDataDir       string `mapstructure:"pfam_data_dir"`
	KEGGDataDir       string `mapstructure:"kegg_data_dir"`
	InteracDomeDir    string `mapstructure:"interacdome_data_dir"`
	// Annotations enables or disables annotation stages by name.
	Annotations map[string]bool `mapstructure:"annotations"`
	// Template is the HTML report template. The embedded one is used when empty.
	Template string `mapstructure:"template"`
}

// DefaultSettings returns the settings of the production image.
func DefaultSettings() Settings {
	return Settings{
		Scratch:           "/kb/module/work/tmp",
		ResultDirName:     "anvio_output_dir",
		AnvioThreads:      10,
		AnnotationThreads: mapping.DefaultThreads,
		MappingThreads:    mapping.DefaultThreads,
		BBMapMemory:       mapping.DefaultBBMapMemory,
		COGDataDir:        "/data/anviodb/COG",
		PfamDataDir:       "/data/anviodb/Pfam",
		KEGGDataDir:       "/data/anviodb/KEGG",
		InteracDomeDir:    "/data/anviodb/Interacdome",
	}
}

// Annotation is an annotation stage run against the contigs database.
type Annotation struct {
	Name    string
	Enabled bool
	Build   func(s Settings) command.Sequence
}

// DefaultAnnotations returns the annotation battery in execution order.
func DefaultAnnotations() []Annotation {
	return []Annotation{
		{Name: "run-hmms", Enabled: true, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.RunHMMs(command.ContigsDB, s.AnnotationThreads)}
		}},
		{Name: "run-ncbi-cogs", Enabled: true, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.RunNCBICOGs(command.ContigsDB, s.COGDataDir, s.AnnotationThreads)}
		}},
		{Name: "run-pfams", Enabled: true, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.RunPfams(command.ContigsDB, s.PfamDataDir, s.AnnotationThreads)}
		}},
		{Name: "run-kegg-kofams", Enabled: false, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.RunKEGGKOfams(command.ContigsDB, s.KEGGDataDir, s.AnnotationThreads)}
		}},
		{Name: "run-interacdome", Enabled: false, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.RunInteracDome(command.ContigsDB, s.InteracDomeDir, s.AnnotationThreads)}
		}},
		{Name: "run-scg-taxonomy", Enabled: true, Build: func(s Settings) command.Sequence {
			return command.RunSCGTaxonomy(command.ContigsDB, s.AnnotationThreads)
		}},
		{Name: "scan-trnas", Enabled: false, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.ScanTRNAs(command.ContigsDB, s.AnnotationThreads)}
		}},
		{Name: "run-trna-taxonomy", Enabled: false, Build: func(s Settings) command.Sequence {
			return command.Sequence{command.RunTRNATaxonomy(command.ContigsDB, s.AnnotationThreads)}
		}},
	}
}

// Validate checks that every annotation override names a known stage.
func (s Settings) Validate() error {
	known := make(map[string]struct{})
	for _, ann := range DefaultAnnotations() {
		known[ann.Name] = struct{}{}
	}

	names := make([]string, 0, len(s.Annotations))
	for name := range s.Annotations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := known[name]; !ok {
			return &ValidationError{Field: "annotations", Reason: fmt.Sprintf("unknown annotation stage %q", name)}
		}
	}

	return nil
}

// annotations applies the overrides of the settings to the default battery.
func (s Settings) annotations() []Annotation {
	res := DefaultAnnotations()
	for i := range res {
		if enabled, ok := s.Annotations[res[i].Name]; ok {
			res[i].Enabled = enabled
		}
	}

	return res
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.Scratch == "" {
		s.Scratch = def.Scratch
	}
	if s.ResultDirName == "" {
		s.ResultDirName = def.ResultDirName
	}
	if s.AnvioThreads <= 0 {
		s.AnvioThreads = def.AnvioThreads
	}
	if s.AnnotationThreads <= 0 {
		s.AnnotationThreads = def.AnnotationThreads
	}
	if s.MappingThreads <= 0 {
		s.MappingThreads = def.MappingThreads
	}
	if s.BBMapMemory == "" {
		s.BBMapMemory = def.BBMapMemory
	}
	if s.COGDataDir == "" {
		s.COGDataDir = def.COGDataDir
	}
	if s.PfamDataDir == "" {
		s.PfamDataDir = def.PfamDataDir
	}
	if s.KEGGDataDir == "" {
		s.KEGGDataDir = def.KEGGDataDir
	}
	if s.InteracDomeDir == "" {
		s.InteracDomeDir = def.InteracDomeDir
	}

	return s
}
