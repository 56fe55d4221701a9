package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-anvio/pkg/command"
)

func TestFastqStem(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"/scratch/lib1.oldstyle.fastq": "/scratch/lib1.oldstyle",
		"/scratch/lib.fastq.gz":        "/scratch/lib",
		"reads.fq":                     "reads",
		"reads":                        "reads",
	}
	for in, want := range tcs {
		assert.Equal(t, want, command.FastqStem(in), in)
	}
}

func TestDeinterleavedNames(t *testing.T) {
	t.Parallel()

	fwd, rev := command.DeinterleavedNames("/scratch/lib1.oldstyle.fastq")
	assert.Equal(t, "/scratch/lib1.oldstyle_forward.fastq", fwd)
	assert.Equal(t, "/scratch/lib1.oldstyle_reverse.fastq", rev)
}

func TestAlignmentNames(t *testing.T) {
	t.Parallel()

	sam := command.SamName("/scratch/lib1.oldstyle.fastq")
	assert.Equal(t, "lib1.oldstyle.sam", sam)
	assert.Equal(t, "lib1.oldstyle_2.sam", command.IndexedSamName("/other/lib1.oldstyle.fastq", 2))

	sorted := command.SortedBamName("/work", sam)
	assert.Equal(t, "/work/lib1.oldstyle_sorted.bam", sorted)
	assert.Equal(t, "/other/x_sorted.bam", command.SortedBamName("/work", "/other/x.sam"))

	assert.Equal(t, "/work/lib1.oldstyle_sorted.bam-RAW.bam", command.RawBamName(sorted))
	assert.Equal(t, "lib1.oldstyle_RAW", command.ProfileDirName(sam))
	assert.Equal(t, "asm.fa_anvio-reformatted", command.ReformattedName("/scratch/asm.fa"))
}
