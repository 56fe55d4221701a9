package command

// SamToSortedBam keeps the mapped reads of a SAM file and sorts them into a bam file.
func SamToSortedBam(sam, sortedBam string) Command {
	return New("samtools", "view", "-F", "0x04", "-uS", sam).
		Pipe("samtools", "sort", "-", "-o", sortedBam)
}

// IndexBam indexes a sorted bam file.
func IndexBam(sortedBam string) Command {
	return New("samtools", "index", sortedBam)
}

// Deinterleave splits an interleaved fastq file into its forward and reverse reads.
func Deinterleave(fastq, forward, reverse string) Command {
	return New("deinterleave_fastq.sh", forward, reverse).From(fastq)
}
