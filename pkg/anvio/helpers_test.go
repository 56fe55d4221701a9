package anvio_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/go-anvio/pkg/anvio"
	"github.com/askiada/go-anvio/pkg/command"
	"github.com/askiada/go-anvio/pkg/kbase"
	"github.com/askiada/go-anvio/pkg/mapping"
	"github.com/askiada/go-anvio/pkg/runner"
)

// fakeExecutor records every command and creates the files the real programs would write.
type fakeExecutor struct {
	mu       sync.Mutex
	commands []string
	dirs     []string
	failOn   string
	emptyBam bool
}

func (f *fakeExecutor) Run(_ context.Context, dir string, cmd command.Command) (*runner.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := cmd.String()
	f.commands = append(f.commands, line)
	f.dirs = append(f.dirs, dir)

	if f.failOn != "" && cmd.Program() == f.failOn {
		return &runner.Result{Command: line, ExitCode: 1}, &runner.ExternalToolFailure{
			Command:  line,
			ExitCode: 1,
			Stderr:   f.failOn + " crashed",
		}
	}

	err := f.produce(dir, cmd)
	if err != nil {
		return nil, err
	}

	return &runner.Result{Command: line}, nil
}

func (f *fakeExecutor) RunSequence(ctx context.Context, dir string, seq command.Sequence) ([]*runner.Result, error) {
	results := make([]*runner.Result, 0, len(seq))
	for _, cmd := range seq {
		res, err := f.Run(ctx, dir, cmd)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}

	return ""
}

func (f *fakeExecutor) produce(dir string, cmd command.Command) error {
	last := cmd.Procs[len(cmd.Procs)-1]
	switch {
	case cmd.Stdout != "":
		return os.WriteFile(resolve(dir, cmd.Stdout), []byte("@SQ\n"), 0o600)
	case last.Name == "anvi-profile", last.Name == "anvi-merge":
		out := resolve(dir, flagValue(last.Args, "-o"))
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(out, "PROFILE.db"), []byte("profile"), 0o600)
	case last.Name == "samtools" && len(last.Args) > 0 && last.Args[0] == "sort":
		content := []byte("bam")
		if f.emptyBam {
			content = nil
		}
		return os.WriteFile(resolve(dir, flagValue(last.Args, "-o")), content, 0o600)
	case last.Name == "deinterleave_fastq.sh":
		for _, out := range last.Args {
			if err := os.WriteFile(resolve(dir, out), []byte("@r\n"), 0o600); err != nil {
				return err
			}
		}
		return nil
	case last.Name == "anvi-script-reformat-fasta":
		return os.WriteFile(resolve(dir, flagValue(last.Args, "-o")), []byte(">c_1\nACGTACGT\n>c_2\nACGT\n"), 0o600)
	case last.Name == "anvi-gen-contigs-database", last.Name == "anvi-init-bam", last.Name == "bbmap.sh",
		last.Name == "bowtie2", last.Name == "hisat2":
		out := flagValue(last.Args, "-o")
		if out == "" {
			out = flagValue(last.Args, "-S")
		}
		for _, arg := range last.Args {
			if strings.HasPrefix(arg, "out=") {
				out = strings.TrimPrefix(arg, "out=")
			}
		}
		if out == "" {
			return nil
		}
		return os.WriteFile(resolve(dir, out), []byte("data"), 0o600)
	}

	return nil
}

func (f *fakeExecutor) programs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]string, len(f.commands))
	for i, line := range f.commands {
		res[i] = strings.Fields(line)[0]
	}

	return res
}

func (f *fakeExecutor) find(program string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []string
	for _, line := range f.commands {
		if strings.Fields(line)[0] == program {
			res = append(res, line)
		}
	}

	return res
}

// fakeServices serves an assembly and read libraries from a temporary directory.
type fakeServices struct {
	mu          sync.Mutex
	assembly    string
	libraries   map[string]kbase.ReadLibrary
	calls       []string
	report      *kbase.ReportParams
	downloadErr error
}

func newFakeServices(t *testing.T, layouts ...mapping.Layout) (*fakeServices, []string) {
	t.Helper()

	dir := t.TempDir()
	assembly := filepath.Join(dir, "assembly.fa")
	require.NoError(t, os.WriteFile(assembly, []byte(">contig1\nACGTACGTAC\n"), 0o600))

	srv := &fakeServices{assembly: assembly, libraries: make(map[string]kbase.ReadLibrary)}
	refs := make([]string, 0, len(layouts))
	for i, layout := range layouts {
		ref := "1/" + string(rune('1'+i)) + "/1"
		fwd := filepath.Join(dir, "lib"+string(rune('a'+i))+".fastq")
		require.NoError(t, os.WriteFile(fwd, []byte("@r\n"), 0o600))
		lib := kbase.ReadLibrary{Ref: ref, Fwd: fwd, Layout: layout}
		if layout == mapping.Paired {
			lib.Rev = filepath.Join(dir, "lib"+string(rune('a'+i))+"_rev.fastq")
		}
		srv.libraries[ref] = lib
		refs = append(refs, ref)
	}

	return srv, refs
}

func (s *fakeServices) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *fakeServices) GetAssemblyAsFasta(_ context.Context, ref string) (string, error) {
	s.record("get_assembly_as_fasta " + ref)
	return s.assembly, nil
}

func (s *fakeServices) UnpackFile(_ context.Context, path string) (string, error) {
	s.record("unpack_file")
	return path, nil
}

func (s *fakeServices) DownloadReads(_ context.Context, refs []string) (map[string]kbase.ReadLibrary, error) {
	s.record("download_reads " + strings.Join(refs, ","))
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}

	res := make(map[string]kbase.ReadLibrary, len(refs))
	for _, ref := range refs {
		if lib, ok := s.libraries[ref]; ok {
			res[ref] = lib
		}
	}

	return res, nil
}

func (s *fakeServices) CreateExtendedReport(_ context.Context, params kbase.ReportParams) (*kbase.ReportInfo, error) {
	s.record("create_extended_report")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &params

	return &kbase.ReportInfo{Name: params.ReportObjectName, Ref: "7/8/9"}, nil
}

func newApp(t *testing.T, srv *fakeServices, exec *fakeExecutor) *anvio.App {
	t.Helper()

	settings := anvio.DefaultSettings()
	settings.Scratch = t.TempDir()
	app := anvio.NewApp(srv, exec, settings)
	app.Dispatcher = &mapping.Dispatcher{Threads: 4, BBMapMemory: "30g", Seed: func() int64 { return 42 }}

	return app
}

func runConfig(tool mapping.Tool, refs []string) anvio.RunConfig {
	return anvio.RunConfig{
		AssemblyRef:     "1/2/3",
		WorkspaceName:   "ws",
		ReadsList:       refs,
		ReadMappingTool: tool,
		KmerSize:        4,
		ContigSplitSize: 20000,
		MinContigLength: 1000,
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}

	return names
}
