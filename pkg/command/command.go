package command

import (
	"fmt"
	"strings"
)

// Proc is a single program invocation.
type Proc struct {
	Name string
	Args []string
}

// Argv returns the program name followed by its arguments.
func (p Proc) Argv() []string {
	return append([]string{p.Name}, p.Args...)
}

// Command is a chain of processes where the standard output of each process feeds the
// standard input of the next one.
type Command struct {
	Procs []Proc
	// Stdin is a file read by the first process, if set.
	Stdin string
	// Stdout is a file written by the last process, if set.
	Stdout string
}

// New creates a command running a single program.
func New(name string, args ...string) Command {
	return Command{Procs: []Proc{{Name: name, Args: args}}}
}

// Pipe appends a process reading the output of the command.
func (c Command) Pipe(name string, args ...string) Command {
	procs := make([]Proc, 0, len(c.Procs)+1)
	procs = append(procs, c.Procs...)
	c.Procs = append(procs, Proc{Name: name, Args: args})

	return c
}

// From redirects the standard input of the command from a file.
func (c Command) From(path string) Command {
	c.Stdin = path
	return c
}

// To redirects the standard output of the command to a file.
func (c Command) To(path string) Command {
	c.Stdout = path
	return c
}

// Program returns the name of the first program of the chain.
func (c Command) Program() string {
	if len(c.Procs) == 0 {
		return ""
	}

	return c.Procs[0].Name
}

// String renders the command as a shell-like line.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Procs))
	for i, proc := range c.Procs {
		line := quoteAll(proc.Argv())
		if i == 0 && c.Stdin != "" {
			line += " < " + quote(c.Stdin)
		}
		parts = append(parts, line)
	}
	res := strings.Join(parts, " | ")
	if c.Stdout != "" {
		res += " > " + quote(c.Stdout)
	}

	return res
}

// Sequence is a list of commands run one after the other, stopping on the first failure.
type Sequence []Command

// Then returns a new sequence with the commands appended.
func (s Sequence) Then(cmds ...Command) Sequence {
	res := make(Sequence, 0, len(s)+len(cmds))
	res = append(res, s...)

	return append(res, cmds...)
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, cmd := range s {
		parts[i] = cmd.String()
	}

	return strings.Join(parts, " && ")
}

// Args accumulates argv tokens.
type Args []string

// Add appends raw tokens.
func (a Args) Add(tokens ...string) Args {
	return append(a, tokens...)
}

// Flag appends a flag followed by its value as two tokens.
func (a Args) Flag(name string, value interface{}) Args {
	return append(a, name, fmt.Sprint(value))
}

// KV appends a key=value token, the way bbmap expects its options.
func (a Args) KV(key string, value interface{}) Args {
	return append(a, key+"="+fmt.Sprint(value))
}

func quoteAll(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = quote(token)
	}

	return strings.Join(quoted, " ")
}

func quote(token string) string {
	if token == "" {
		return "''"
	}
	if strings.IndexFunc(token, unsafe) < 0 {
		return token
	}

	return "'" + strings.ReplaceAll(token, "'", `'\''`) + "'"
}

func unsafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_-./=:,+@%", r):
		return false
	}

	return true
}
