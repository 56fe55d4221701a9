package command

import "path/filepath"

const (
	// ContigsDB is the contigs database every anvi'o program of a run works on.
	ContigsDB = "contigs.db"
	// MergedProfileDir is the output of anvi-merge.
	MergedProfileDir = "SAMPLES-MERGED"
	// BlankProfileDir is the output of a blank anvi-profile run.
	BlankProfileDir = "BLANK-PROFILE"
	// BlankSampleName names the blank profile sample.
	BlankSampleName = "BLANK"

	prodigalTranslationTable = 11
)

// ReformatFasta drops contigs shorter than minLength and simplifies the sequence names.
func ReformatFasta(in, out string, minLength int) Command {
	args := Args{in}.
		Flag("-o", out).
		Flag("-l", minLength).
		Add("--simplify-names")

	return New("anvi-script-reformat-fasta", args...)
}

// GenContigsDB builds the contigs database from a reformatted FASTA file.
func GenContigsDB(fasta string, splitLength, kmerSize, threads int) Command {
	args := Args{}.
		Flag("-f", fasta).
		Flag("-o", ContigsDB).
		Flag("--split-length", splitLength).
		Flag("--kmer-size", kmerSize).
		Flag("-T", threads).
		Flag("--prodigal-translation-table", prodigalTranslationTable).
		Flag("-n", filepath.Base(fasta)+" contig database")

	return New("anvi-gen-contigs-database", args...)
}

// RunHMMs runs the default HMM profiles against the database.
func RunHMMs(db string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Add("--quiet")

	return New("anvi-run-hmms", args...)
}

// RunNCBICOGs annotates genes with NCBI COGs.
func RunNCBICOGs(db, dataDir string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Add("--sensitive").
		Flag("--cog-data-dir", dataDir)

	return New("anvi-run-ncbi-cogs", args...)
}

// RunPfams annotates genes with Pfam protein families.
func RunPfams(db, dataDir string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Flag("--pfam-data-dir", dataDir)

	return New("anvi-run-pfams", args...)
}

// RunKEGGKOfams annotates genes with KEGG orthologs.
func RunKEGGKOfams(db, dataDir string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Flag("--kegg-data-dir", dataDir)

	return New("anvi-run-kegg-kofams", args...)
}

// RunInteracDome annotates domain-ligand binding frequencies.
func RunInteracDome(db, dataDir string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Flag("--interacdome-dataset", "representable").
		Flag("-m", "0.200000").
		Flag("-f", "0.5").
		Flag("--interacdome-data-dir", dataDir)

	return New("anvi-run-interacdome", args...)
}

// RunSCGTaxonomy sets up the single-copy core gene taxonomy data and assigns taxonomy.
func RunSCGTaxonomy(db string, threads int) Sequence {
	setup := New("anvi-setup-scg-taxonomy", "-T", "1")
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Flag("-P", 1).
		Flag("--max-num-target-sequences", 20).
		Flag("--min-percent-identity", "90.0")

	return Sequence{setup, New("anvi-run-scg-taxonomy", args...)}
}

// ScanTRNAs identifies tRNA genes.
func ScanTRNAs(db string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Flag("--trna-cutoff-score", 20)

	return New("anvi-scan-trnas", args...)
}

// RunTRNATaxonomy assigns taxonomy from tRNA genes.
func RunTRNATaxonomy(db string, threads int) Command {
	args := Args{}.
		Flag("-c", db).
		Flag("--num-threads", threads).
		Flag("--min-percent-identity", "90.0").
		Flag("--max-num-target-sequences", 100).
		Flag("-P", 1)

	return New("anvi-run-trna-taxonomy", args...)
}

// InitBam prepares a sorted bam file for profiling.
func InitBam(sortedBam, rawBam string, threads int) Command {
	args := Args{sortedBam}.
		Flag("-o", rawBam).
		Flag("-T", threads)

	return New("anvi-init-bam", args...)
}

// Profile profiles a bam file against the contigs database into outDir.
func Profile(rawBam, db, outDir, sample string, threads int) Command {
	args := Args{}.
		Flag("-i", rawBam).
		Flag("-c", db).
		Flag("-o", outDir).
		Flag("-S", sample).
		Flag("-T", threads)

	return New("anvi-profile", args...)
}

// BlankProfile creates a profile without any read coverage.
func BlankProfile(db string) Command {
	args := Args{}.
		Flag("-c", db).
		Add("--blank-profile").
		Flag("-o", BlankProfileDir).
		Flag("-S", BlankSampleName)

	return New("anvi-profile", args...)
}

// Merge merges the PROFILE.db of every given profile directory.
func Merge(profileDirs []string, db string) Command {
	args := make(Args, 0, len(profileDirs)+5)
	for _, dir := range profileDirs {
		args = args.Add(filepath.Join(dir, "PROFILE.db"))
	}
	args = args.
		Flag("-o", MergedProfileDir).
		Flag("-c", db).
		Add("--enforce-hierarchical-clustering")

	return New("anvi-merge", args...)
}

// SampleName turns a file stem into a sample name anvi'o accepts: letters, digits and
// underscores only, never starting with a digit.
func SampleName(stem string) string {
	buf := make([]rune, 0, len(stem)+1)
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			buf = append(buf, r)
		default:
			buf = append(buf, '_')
		}
	}
	name := string(buf)
	if name == "" {
		return "sample"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "s_" + name
	}

	return name
}
