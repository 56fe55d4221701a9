package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-anvio/pkg/command"
)

func TestAnvioBuilders(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cmd  command.Command
		want string
	}{
		"reformat": {
			cmd:  command.ReformatFasta("/s/asm.fa", "asm.fa_anvio-reformatted", 1000),
			want: "anvi-script-reformat-fasta /s/asm.fa -o asm.fa_anvio-reformatted -l 1000 --simplify-names",
		},
		"contigs db": {
			cmd: command.GenContigsDB("asm.fa_anvio-reformatted", 20000, 4, 10),
			want: "anvi-gen-contigs-database -f asm.fa_anvio-reformatted -o contigs.db --split-length 20000 " +
				"--kmer-size 4 -T 10 --prodigal-translation-table 11 -n 'asm.fa_anvio-reformatted contig database'",
		},
		"hmms": {
			cmd:  command.RunHMMs(command.ContigsDB, 4),
			want: "anvi-run-hmms -c contigs.db --num-threads 4 --quiet",
		},
		"cogs": {
			cmd:  command.RunNCBICOGs(command.ContigsDB, "/data/anviodb/COG", 4),
			want: "anvi-run-ncbi-cogs -c contigs.db --num-threads 4 --sensitive --cog-data-dir /data/anviodb/COG",
		},
		"pfams": {
			cmd:  command.RunPfams(command.ContigsDB, "/data/anviodb/Pfam", 4),
			want: "anvi-run-pfams -c contigs.db --num-threads 4 --pfam-data-dir /data/anviodb/Pfam",
		},
		"kofams": {
			cmd:  command.RunKEGGKOfams(command.ContigsDB, "/data/anviodb/KEGG", 4),
			want: "anvi-run-kegg-kofams -c contigs.db --num-threads 4 --kegg-data-dir /data/anviodb/KEGG",
		},
		"interacdome": {
			cmd: command.RunInteracDome(command.ContigsDB, "/data/anviodb/Interacdome", 4),
			want: "anvi-run-interacdome -c contigs.db --num-threads 4 --interacdome-dataset representable " +
				"-m 0.200000 -f 0.5 --interacdome-data-dir /data/anviodb/Interacdome",
		},
		"trnas": {
			cmd:  command.ScanTRNAs(command.ContigsDB, 4),
			want: "anvi-scan-trnas -c contigs.db --num-threads 4 --trna-cutoff-score 20",
		},
		"trna taxonomy": {
			cmd:  command.RunTRNATaxonomy(command.ContigsDB, 4),
			want: "anvi-run-trna-taxonomy -c contigs.db --num-threads 4 --min-percent-identity 90.0 --max-num-target-sequences 100 -P 1",
		},
		"init bam": {
			cmd:  command.InitBam("/w/lib_sorted.bam", "/w/lib_sorted.bam-RAW.bam", 10),
			want: "anvi-init-bam /w/lib_sorted.bam -o /w/lib_sorted.bam-RAW.bam -T 10",
		},
		"profile": {
			cmd:  command.Profile("/w/lib_sorted.bam-RAW.bam", command.ContigsDB, "lib_RAW", "lib", 10),
			want: "anvi-profile -i /w/lib_sorted.bam-RAW.bam -c contigs.db -o lib_RAW -S lib -T 10",
		},
		"blank profile": {
			cmd:  command.BlankProfile(command.ContigsDB),
			want: "anvi-profile -c contigs.db --blank-profile -o BLANK-PROFILE -S BLANK",
		},
		"merge": {
			cmd:  command.Merge([]string{"a_RAW", "b_RAW"}, command.ContigsDB),
			want: "anvi-merge a_RAW/PROFILE.db b_RAW/PROFILE.db -o SAMPLES-MERGED -c contigs.db --enforce-hierarchical-clustering",
		},
		"index": {
			cmd:  command.IndexBam("a_sorted.bam"),
			want: "samtools index a_sorted.bam",
		},
		"deinterleave": {
			cmd:  command.Deinterleave("/s/lib.fastq", "/s/lib_forward.fastq", "/s/lib_reverse.fastq"),
			want: "deinterleave_fastq.sh /s/lib_forward.fastq /s/lib_reverse.fastq < /s/lib.fastq",
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

func TestRunSCGTaxonomy(t *testing.T) {
	t.Parallel()

	seq := command.RunSCGTaxonomy(command.ContigsDB, 4)
	assert.Equal(t, "anvi-setup-scg-taxonomy -T 1 && anvi-run-scg-taxonomy -c contigs.db --num-threads 4 "+
		"-P 1 --max-num-target-sequences 20 --min-percent-identity 90.0", seq.String())
}

func TestSampleName(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"lib1.oldstyle":  "lib1_oldstyle",
		"1-lib":          "s_1_lib",
		"":               "sample",
		"Sample_A":       "Sample_A",
		"reads sample-b": "reads_sample_b",
	}
	for in, want := range tcs {
		assert.Equal(t, want, command.SampleName(in), in)
	}
}
