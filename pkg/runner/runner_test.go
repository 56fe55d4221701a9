package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-anvio/pkg/command"
	"github.com/askiada/go-anvio/pkg/runner"
)

func TestRunCapturesOutput(t *testing.T) {
	t.Parallel()

	res, err := runner.New().Run(context.Background(), t.TempDir(), command.New("echo", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "echo hello", res.Command)
}

func TestRunNonZeroExit(t *testing.T) {
	t.Parallel()

	cmd := command.New("sh", "-c", "echo partial; echo broken >&2; exit 3")
	res, err := runner.New().Run(context.Background(), t.TempDir(), cmd)
	require.Error(t, err)

	var failure *runner.ExternalToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 3, failure.ExitCode)
	assert.Equal(t, cmd.String(), failure.Command)
	assert.Equal(t, "partial\n", failure.Stdout)
	assert.Equal(t, "broken\n", failure.Stderr)
	assert.Contains(t, err.Error(), "exit code: 3")
	assert.Contains(t, err.Error(), cmd.String())
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunUsesDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)

	res, err := runner.New().Run(context.Background(), dir, command.New("pwd"))
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(filepath.Clean(res.Stdout[:len(res.Stdout)-1]))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, after)
}

func TestRunPipe(t *testing.T) {
	t.Parallel()

	cmd := command.New("echo", "abc").Pipe("tr", "a-z", "A-Z")
	res, err := runner.New().Run(context.Background(), t.TempDir(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", res.Stdout)
}

func TestRunPipeFailure(t *testing.T) {
	t.Parallel()

	cmd := command.New("sh", "-c", "exit 2").Pipe("cat")
	_, err := runner.New().Run(context.Background(), t.TempDir(), cmd)

	var failure *runner.ExternalToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, 2, failure.ExitCode)
}

func TestRunRedirections(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte("abc\n"), 0o600))

	cmd := command.New("tr", "a-z", "A-Z").From("in.txt").To("out.txt")
	res, err := runner.New().Run(context.Background(), dir, cmd)
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)

	got, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ABC\n", string(got))
}

func TestRunMissingInput(t *testing.T) {
	t.Parallel()

	_, err := runner.New().Run(context.Background(), t.TempDir(), command.New("cat").From("missing.txt"))

	var failure *runner.ExternalToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, -1, failure.ExitCode)
}

func TestRunMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := runner.New().Run(context.Background(), t.TempDir(), command.New("definitely-not-an-anvio-binary"))

	var failure *runner.ExternalToolFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, -1, failure.ExitCode)
	assert.Error(t, failure.Err)
}

func TestRunTimeout(t *testing.T) {
	t.Parallel()

	r := runner.New(runner.WithTimeout(100 * time.Millisecond))
	start := time.Now()
	_, err := r.Run(context.Background(), t.TempDir(), command.New("sleep", "10"))
	require.Error(t, err)
	assert.ErrorIs(t, err, runner.ErrTimeout)
	assert.Less(t, time.Since(start), 8*time.Second)
}

func TestRunBackgroundChildKeepsOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cmd      command.Command
		wantCode int
	}{
		"exit zero": {
			cmd: command.New("sh", "-c", "sleep 2 & echo started; exit 0"),
		},
		"exit non zero": {
			cmd:      command.New("sh", "-c", "sleep 2 & exit 4"),
			wantCode: 4,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := runner.New(runner.WithWaitDelay(100 * time.Millisecond))
			res, err := r.Run(context.Background(), t.TempDir(), tc.cmd)
			if tc.wantCode == 0 {
				require.NoError(t, err)
				assert.Equal(t, 0, res.ExitCode)
				return
			}
			var failure *runner.ExternalToolFailure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tc.wantCode, failure.ExitCode)
		})
	}
}

func TestRunEmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := runner.New().Run(context.Background(), t.TempDir(), command.Command{})
	assert.ErrorIs(t, err, runner.ErrEmptyCommand)
}

func TestRunSequenceStopsOnFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	seq := command.Sequence{
		command.New("touch", "first"),
		command.New("false"),
		command.New("touch", "second"),
	}
	results, err := runner.New().RunSequence(context.Background(), dir, seq)
	require.Error(t, err)
	assert.Len(t, results, 1)

	assert.FileExists(t, filepath.Join(dir, "first"))
	assert.NoFileExists(t, filepath.Join(dir, "second"))
}

func TestRunWithEnv(t *testing.T) {
	t.Parallel()

	r := runner.New(runner.WithEnv([]string{"ANVIO_TEST_VALUE=42", "PATH=" + os.Getenv("PATH")}))
	res, err := r.Run(context.Background(), t.TempDir(), command.New("sh", "-c", "echo $ANVIO_TEST_VALUE"))
	require.NoError(t, err)
	assert.Equal(t, "42\n", res.Stdout)
}
