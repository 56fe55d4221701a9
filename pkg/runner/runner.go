// Package runner executes external commands in an explicit working directory.
//
// A run blocks until every process of the command exits. Any nonzero exit status is
// reported as an ExternalToolFailure carrying the command line and the captured output.
// The runner never changes the working directory of the current process, so several runs
// may share a process.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/askiada/go-anvio/pkg/command"
)

// DefaultWaitDelay bounds how long output copying may outlive a process.
const DefaultWaitDelay = 5 * time.Second

var (
	ErrEmptyCommand = errors.New("command has no process")
	ErrTimeout      = errors.New("command timed out")
)

// Result is the outcome of one command.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ExternalToolFailure is returned when an external program does not exit with status 0.
type ExternalToolFailure struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	// Err is the underlying cause, such as a missing binary or a timeout.
	Err error
}

func (e *ExternalToolFailure) Error() string {
	msg := fmt.Sprintf("error running command:\n%s\nexit code: %d\noutput:\n%s\nstderr:\n%s",
		e.Command, e.ExitCode, e.Stdout, e.Stderr)
	if e.Err != nil {
		msg += "\ncause: " + e.Err.Error()
	}

	return msg
}

func (e *ExternalToolFailure) Unwrap() error {
	return e.Err
}

// Executor runs commands.
type Executor interface {
	// Run executes the command in dir and waits for it to finish.
	Run(ctx context.Context, dir string, cmd command.Command) (*Result, error)
	// RunSequence executes the commands in order and stops on the first failure.
	RunSequence(ctx context.Context, dir string, seq command.Sequence) ([]*Result, error)
}

// Runner executes commands as child processes.
type Runner struct {
	// Timeout bounds every command. Zero waits forever.
	Timeout time.Duration
	// Env is the environment of the child processes. Nil inherits the current one.
	Env []string
	// WaitDelay bounds how long the output of a process is read after it exits.
	WaitDelay time.Duration
}

// Option configures a Runner.
type Option func(r *Runner)

// WithTimeout bounds the duration of each command.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.Timeout = timeout
	}
}

// WithEnv sets the environment of the child processes.
func WithEnv(env []string) Option {
	return func(r *Runner) {
		r.Env = env
	}
}

// WithWaitDelay sets how long the output of a process is read after it exits.
func WithWaitDelay(delay time.Duration) Option {
	return func(r *Runner) {
		r.WaitDelay = delay
	}
}

// New creates a runner.
func New(opts ...Option) *Runner {
	r := &Runner{WaitDelay: DefaultWaitDelay}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RunSequence executes the commands one after the other.
func (r *Runner) RunSequence(ctx context.Context, dir string, seq command.Sequence) ([]*Result, error) {
	results := make([]*Result, 0, len(seq))
	for _, cmd := range seq {
		res, err := r.Run(ctx, dir, cmd)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// Run executes the command in dir.
func (r *Runner) Run(ctx context.Context, dir string, cmd command.Command) (*Result, error) {
	if len(cmd.Procs) == 0 {
		return nil, ErrEmptyCommand
	}
	line := cmd.String()
	log.Printf("start executing command:\n%s", line)
	log.Debug.Printf("command is running from: %s", dir)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	exitCode, err := r.run(ctx, dir, cmd, stdout, stderr)
	res := &Result{
		Command:  line,
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = errors.Wrapf(ErrTimeout, "after %s", r.Timeout)
		} else {
			err = ctx.Err()
		}
	}
	if err != nil || exitCode != 0 {
		return res, &ExternalToolFailure{
			Command:  line,
			ExitCode: exitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Err:      err,
		}
	}
	log.Printf("executed command:\n%s\nexit code: %d (%s)", line, exitCode, res.Duration.Round(time.Millisecond))

	return res, nil
}

func (r *Runner) run(ctx context.Context, dir string, cmd command.Command, stdout, stderr *syncBuffer) (int, error) {
	procs := make([]*exec.Cmd, len(cmd.Procs))
	for i, proc := range cmd.Procs {
		c := exec.CommandContext(ctx, proc.Name, proc.Args...)
		c.Dir = dir
		c.Env = r.Env
		c.Stderr = stderr
		c.WaitDelay = r.WaitDelay
		configureProcess(c)
		procs[i] = c
	}

	// files closed once every process has started
	var parentFiles []*os.File
	defer func() {
		for _, f := range parentFiles {
			_ = f.Close()
		}
	}()

	if cmd.Stdin != "" {
		in, err := os.Open(resolve(dir, cmd.Stdin))
		if err != nil {
			return -1, errors.Wrap(err, "unable to open standard input")
		}
		parentFiles = append(parentFiles, in)
		procs[0].Stdin = in
	}
	last := procs[len(procs)-1]
	if cmd.Stdout != "" {
		out, err := os.Create(resolve(dir, cmd.Stdout))
		if err != nil {
			return -1, errors.Wrap(err, "unable to create standard output")
		}
		parentFiles = append(parentFiles, out)
		last.Stdout = out
	} else {
		last.Stdout = stdout
	}
	for i := 0; i < len(procs)-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			return -1, errors.Wrap(err, "unable to create pipe")
		}
		parentFiles = append(parentFiles, pr, pw)
		procs[i].Stdout = pw
		procs[i+1].Stdin = pr
	}

	started := make([]*exec.Cmd, 0, len(procs))
	for _, c := range procs {
		err := c.Start()
		if err != nil {
			for _, s := range started {
				terminateProcess(s)
				_ = s.Wait()
			}
			return -1, errors.Wrapf(err, "unable to start %s", c.Path)
		}
		started = append(started, c)
	}
	// the children hold their own copies of the pipe ends
	for _, f := range parentFiles {
		_ = f.Close()
	}
	parentFiles = nil

	// every process of the chain is waited for, even after a failure
	exitCode := 0
	var waitErr error
	for _, c := range procs {
		err := c.Wait()
		if err == nil || errors.Is(err, exec.ErrWaitDelay) {
			// ErrWaitDelay: the process exited 0, a leftover child still held its output
			continue
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			if exitCode == 0 {
				exitCode = -1
			}
			continue
		}
		if waitErr == nil {
			waitErr = errors.Wrapf(err, "unable to wait for %s", c.Path)
		}
	}
	if waitErr != nil {
		return -1, waitErr
	}

	return exitCode, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}

	return filepath.Join(dir, path)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

var _ Executor = (*Runner)(nil)
