package mapping

import "github.com/pkg/errors"

// Layout is the way the reads of a library are stored.
type Layout string

const (
	// Interleaved libraries alternate forward and reverse reads in a single file.
	Interleaved Layout = "interleaved"
	// SingleEnd libraries hold unpaired reads.
	SingleEnd Layout = "single-end"
	// Paired libraries hold forward and reverse reads in two files.
	Paired Layout = "paired"
)

// ErrUnknownLayout is returned for a layout tag that is not recognised.
var ErrUnknownLayout = errors.New("unknown read library layout")

// ParseLayout maps the layout tags used by the reads service onto a Layout.
func ParseLayout(tag string) (Layout, error) {
	switch tag {
	case "interleaved":
		return Interleaved, nil
	case "single", "single-end", "unpaired":
		return SingleEnd, nil
	case "paired":
		return Paired, nil
	}

	return "", errors.Wrapf(ErrUnknownLayout, "%q", tag)
}

// Input holds the local files of a read library.
type Input struct {
	Forward string
	Reverse string
	Layout  Layout
}

// ErrMissingReads is returned when an input lacks the files its layout needs.
var ErrMissingReads = errors.New("missing read files")

func (in Input) validate() error {
	switch in.Layout {
	case Interleaved, SingleEnd:
		if in.Forward == "" {
			return errors.Wrapf(ErrMissingReads, "%s library", in.Layout)
		}
	case Paired:
		if in.Forward == "" || in.Reverse == "" {
			return errors.Wrap(ErrMissingReads, "paired library needs forward and reverse files")
		}
	default:
		return errors.Wrapf(ErrUnknownLayout, "%q", in.Layout)
	}

	return nil
}
