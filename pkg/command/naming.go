package command

import (
	"path/filepath"
	"strconv"
	"strings"
)

const fastqMarker = ".fastq"

// FastqStem returns the path up to the first ".fastq", or the path without its extension
// when it has no ".fastq" part.
func FastqStem(path string) string {
	if before, _, found := strings.Cut(path, fastqMarker); found {
		return before
	}

	return strings.TrimSuffix(path, filepath.Ext(path))
}

// DeinterleavedNames returns the forward and reverse file names of an interleaved fastq file.
func DeinterleavedNames(fastq string) (forward, reverse string) {
	stem := FastqStem(fastq)
	return stem + "_forward.fastq", stem + "_reverse.fastq"
}

// SamName returns the SAM file name of a read library, relative to the working directory.
func SamName(fastq string) string {
	return FastqStem(filepath.Base(fastq)) + ".sam"
}

// IndexedSamName returns the SAM file name of the n-th read library when its plain name is taken.
func IndexedSamName(fastq string, n int) string {
	return FastqStem(filepath.Base(fastq)) + "_" + strconv.Itoa(n) + ".sam"
}

// SortedBamName returns the sorted bam path of a SAM file, absolute when dir is.
func SortedBamName(dir, sam string) string {
	if !filepath.IsAbs(sam) {
		sam = filepath.Join(dir, sam)
	}

	return strings.TrimSuffix(sam, ".sam") + "_sorted.bam"
}

// RawBamName returns the name anvi-init-bam writes to.
func RawBamName(sortedBam string) string {
	return sortedBam + "-RAW.bam"
}

// ProfileDirName returns the profile directory of a SAM file, relative to the working directory.
func ProfileDirName(sam string) string {
	return strings.TrimSuffix(filepath.Base(sam), ".sam") + "_RAW"
}

// ReformattedName returns the name of the reformatted assembly.
func ReformattedName(contigs string) string {
	return filepath.Base(contigs) + "_anvio-reformatted"
}
