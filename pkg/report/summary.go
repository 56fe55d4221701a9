package report

import (
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/pkg/errors"
)

// AssemblySummary holds the size statistics of an assembly.
type AssemblySummary struct {
	Contigs     int
	TotalLength int
	MinLength   int
	MaxLength   int
	N50         int
}

// Summarize reads the FASTA file at path.
func Summarize(path string) (*AssemblySummary, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer in.Close()

	template := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(in, template))

	sum := &AssemblySummary{}
	var lengths []int
	for sc.Next() {
		n := sc.Seq().Len()
		lengths = append(lengths, n)
		sum.Contigs++
		sum.TotalLength += n
		if sum.MinLength == 0 || n < sum.MinLength {
			sum.MinLength = n
		}
		if n > sum.MaxLength {
			sum.MaxLength = n
		}
	}
	err = sc.Error()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}
	sum.N50 = n50(lengths, sum.TotalLength)

	return sum, nil
}

// n50 is the length of the contig at which the cumulative length of the contigs, longest
// first, reaches half of the total.
func n50(lengths []int, total int) int {
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))
	sum := 0
	for _, n := range lengths {
		sum += n
		if 2*sum >= total {
			return n
		}
	}

	return 0
}
