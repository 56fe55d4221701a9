package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-anvio/pkg/command"
)

func TestCommandString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cmd  command.Command
		want string
	}{
		"single": {
			cmd:  command.New("samtools", "index", "a.bam"),
			want: "samtools index a.bam",
		},
		"quoted token": {
			cmd:  command.New("anvi-gen-contigs-database", "-n", "asm.fa contig database"),
			want: "anvi-gen-contigs-database -n 'asm.fa contig database'",
		},
		"single quote": {
			cmd:  command.New("echo", "it's"),
			want: `echo 'it'\''s'`,
		},
		"empty token": {
			cmd:  command.New("echo", ""),
			want: "echo ''",
		},
		"pipe": {
			cmd:  command.SamToSortedBam("x.sam", "x_sorted.bam"),
			want: "samtools view -F 0x04 -uS x.sam | samtools sort - -o x_sorted.bam",
		},
		"redirections": {
			cmd:  command.New("cat").From("in.fastq").Pipe("wc", "-l").To("out.txt"),
			want: "cat < in.fastq | wc -l > out.txt",
		},
	}

	for name, tc := range tcs {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.cmd.String())
		})
	}
}

func TestPipeDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := command.New("cat", "a")
	first := base.Pipe("wc")
	second := base.Pipe("sort")

	assert.Len(t, base.Procs, 1)
	assert.Equal(t, "wc", first.Procs[1].Name)
	assert.Equal(t, "sort", second.Procs[1].Name)
}

func TestSequenceString(t *testing.T) {
	t.Parallel()

	seq := command.Sequence{command.New("a"), command.New("b", "c")}
	assert.Equal(t, "a && b c", seq.String())
	assert.Equal(t, "a && b c && d", seq.Then(command.New("d")).String())
	assert.Len(t, seq, 2)
}

func TestArgs(t *testing.T) {
	t.Parallel()

	args := command.Args{"x"}.Flag("--threads", 4).KV("ref", "asm.fa").Add("overwrite")
	assert.Equal(t, command.Args{"x", "--threads", "4", "ref=asm.fa", "overwrite"}, args)
}

func TestProgram(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", command.Command{}.Program())
	assert.Equal(t, "samtools", command.IndexBam("a.bam").Program())
}
