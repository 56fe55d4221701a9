package mapping

import (
	"math/rand"
	"path/filepath"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/command"
)

const (
	// MaxSeed is the largest seed drawn by the default seed source.
	MaxSeed = 999999999
	// DefaultThreads is the thread count given to every mapper.
	DefaultThreads = 4
	// DefaultBBMapMemory is the JVM heap given to bbmap.
	DefaultBBMapMemory = "30g"

	unseededWarning = "bbmap does not support setting random seeds, so results are not reproducible"
)

// RandomSeed draws a seed uniformly from [0, MaxSeed].
func RandomSeed() int64 {
	return rand.Int63n(MaxSeed + 1) //nolint:gosec // seeds are not secrets
}

// Dispatcher builds the mapping commands of a read library.
type Dispatcher struct {
	Threads     int
	BBMapMemory string
	// Seed returns a new seed every time it is called.
	Seed func() int64
}

// NewDispatcher creates a dispatcher with the default settings.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		Threads:     DefaultThreads,
		BBMapMemory: DefaultBBMapMemory,
		Seed:        RandomSeed,
	}
}

// Plan is the set of commands aligning one read library.
type Plan struct {
	Tool   Tool
	Layout Layout
	Seed   int64
	Seeded bool
	// Deinterleave splits an interleaved input before alignment, nil when not needed.
	Deinterleave *command.Command
	// Forward and Reverse are the files given to the mapper. Reverse is empty for single reads.
	Forward string
	Reverse string
	Align   command.Sequence
	// Warnings are reported once for the plan.
	Warnings []string
}

// Commands returns every command of the plan in execution order.
func (p *Plan) Commands() command.Sequence {
	if p.Deinterleave == nil {
		return p.Align
	}

	return command.Sequence{*p.Deinterleave}.Then(p.Align...)
}

// Plan selects the alignment variant of the tool for the layout of the input and
// builds its commands, writing the alignment to sam.
func (d *Dispatcher) Plan(tool Tool, in Input, assembly, sam string) (*Plan, error) {
	profile, err := tool.Profile()
	if err != nil {
		return nil, err
	}
	err = in.validate()
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Tool:    tool,
		Layout:  in.Layout,
		Seeded:  profile.Seeded,
		Forward: in.Forward,
		Reverse: in.Reverse,
	}
	if in.Layout == SingleEnd {
		plan.Reverse = ""
	}
	if profile.Seeded {
		plan.Seed = d.seed()
	} else {
		plan.Warnings = append(plan.Warnings, unseededWarning)
	}
	if in.Layout == Interleaved && profile.SplitPairs {
		fwd, rev := command.DeinterleavedNames(in.Forward)
		deinterleave := command.Deinterleave(in.Forward, fwd, rev)
		plan.Deinterleave = &deinterleave
		plan.Forward, plan.Reverse = fwd, rev
	}

	switch profile.family {
	case bbmapFamily:
		plan.Align = d.bbmap(profile, in, assembly, sam)
	case bowtie2Family:
		plan.Align = d.bowtie2(profile, plan, assembly, sam)
	case minimap2Family:
		plan.Align = d.minimap2(plan, assembly, sam)
	case hisat2Family:
		plan.Align = d.hisat2(plan, assembly, sam)
	default:
		return nil, errors.Errorf("no command builder for %s", tool)
	}

	log.Printf("running %s mapping in %s mode", tool, in.Layout)
	if plan.Seeded {
		log.Printf("randomly selected seed used for read mapping: %d", plan.Seed)
	}
	for _, warning := range plan.Warnings {
		log.Printf("warning: %s", warning)
	}

	return plan, nil
}

func (d *Dispatcher) seed() int64 {
	if d.Seed == nil {
		return RandomSeed()
	}

	return d.Seed()
}

func (d *Dispatcher) threads() int {
	if d.Threads <= 0 {
		return DefaultThreads
	}

	return d.Threads
}

func (d *Dispatcher) bbmap(profile Profile, in Input, assembly, sam string) command.Sequence {
	memory := d.BBMapMemory
	if memory == "" {
		memory = DefaultBBMapMemory
	}
	args := command.Args{"-Xmx" + memory}.
		KV("threads", d.threads()).
		KV("ref", assembly).
		KV("in", in.Forward)
	if in.Layout == Paired {
		args = args.KV("in2", in.Reverse)
	}
	args = args.KV("out", sam).Add(profile.Flags...)
	switch in.Layout {
	case Interleaved:
		args = args.KV("interleaved", "true")
	case SingleEnd:
		args = args.KV("interleaved", "false")
	}
	args = args.Add("mappedonly", "nodisk", "overwrite")

	return command.Sequence{command.New("bbmap.sh", args...)}
}

func (d *Dispatcher) bowtie2(profile Profile, plan *Plan, assembly, sam string) command.Sequence {
	index := filepath.Base(assembly) + ".bt2"
	build := command.Args{}.
		Flag("-f", assembly).
		Flag("--threads", d.threads()).
		Flag("--seed", plan.Seed).
		Add(index)

	align := command.Args{}.Add(profile.Flags...).Flag("-x", index)
	align = pairedArgs(align, plan)
	align = align.
		Flag("--threads", d.threads()).
		Flag("-S", sam)

	return command.Sequence{
		command.New("bowtie2-build", build...),
		command.New("bowtie2", align...),
	}
}

func (d *Dispatcher) minimap2(plan *Plan, assembly, sam string) command.Sequence {
	args := command.Args{"-ax", "sr"}.
		Flag("-t", d.threads()).
		Flag("--seed", plan.Seed).
		Add(assembly, plan.Forward)
	if plan.Reverse != "" {
		args = args.Add(plan.Reverse)
	}

	return command.Sequence{command.New("minimap2", args...).To(sam)}
}

func (d *Dispatcher) hisat2(plan *Plan, assembly, sam string) command.Sequence {
	index := filepath.Base(assembly) + ".ht2"
	align := pairedArgs(command.Args{}.Flag("-x", index), plan)
	align = align.
		Flag("-S", sam).
		Flag("--seed", plan.Seed).
		Flag("--threads", d.threads())

	return command.Sequence{
		command.New("hisat2-build", assembly, index),
		command.New("hisat2", align...),
	}
}

func pairedArgs(args command.Args, plan *Plan) command.Args {
	if plan.Reverse == "" {
		return args.Flag("-U", plan.Forward)
	}

	return args.Flag("-1", plan.Forward).Flag("-2", plan.Reverse)
}
