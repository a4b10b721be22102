package job

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/reugn/go-schedule/schedule"
)

// ShellOutput is the captured result of a single command run.
type ShellOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ShellError is the error of a failed command run. It carries the output
// of that run; use errors.As to retrieve it.
type ShellError struct {
	Cmd    string
	Output ShellOutput
	err    error
}

func (e *ShellError) Error() string {
	return fmt.Sprintf("shell command %q: exit code %d: %v", e.Cmd, e.Output.ExitCode, e.err)
}

func (e *ShellError) Unwrap() error { return e.err }

// ShellJob runs a shell command each time its Execute method, a
// [schedule.Callback], is invoked. The outcome of the last run is kept in
// a [Result]. Commands run with bash if it is installed, otherwise with sh.
type ShellJob struct {
	cmd      string
	result   *Result[ShellOutput]
	callback func(context.Context, *ShellJob)
}

var _ schedule.Callback = (*ShellJob)(nil).Execute

// NewShellJob returns a new [ShellJob] for the given command.
func NewShellJob(cmd string) *ShellJob {
	return NewShellJobWithCallback(cmd, nil)
}

// NewShellJobWithCallback returns a new [ShellJob] that invokes f after
// every run, failed or not.
func NewShellJobWithCallback(cmd string, f func(context.Context, *ShellJob)) *ShellJob {
	sh := &ShellJob{cmd: cmd, callback: f}
	sh.result = NewResult(sh.run)
	return sh
}

// Description returns the description of the ShellJob.
func (sh *ShellJob) Description() string {
	return fmt.Sprintf("ShellJob%s%s", schedule.Sep, sh.cmd)
}

var shellPath = sync.OnceValue(func() string {
	if _, err := exec.LookPath("bash"); err != nil {
		return "sh"
	}
	return "bash"
})

// Execute runs the command. The job data is ignored. A failed run returns
// a *ShellError.
func (sh *ShellJob) Execute(ctx context.Context, data any) error {
	err := sh.result.Execute(ctx, data)
	if sh.callback != nil {
		sh.callback(ctx, sh)
	}
	return err
}

func (sh *ShellJob) run(ctx context.Context) (ShellOutput, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shellPath(), "-c", sh.cmd)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := ShellOutput{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if err != nil {
		return output, errors.WithStack(&ShellError{Cmd: sh.cmd, Output: output, err: err})
	}
	return output, nil
}

// Result returns the result of the last run. Its value is set only when
// the run succeeded.
func (sh *ShellJob) Result() *Result[ShellOutput] {
	return sh.result
}

// Output returns the output of the last run, including a failed one.
func (sh *ShellJob) Output() ShellOutput {
	value, err := sh.result.Value()
	if value != nil {
		return *value
	}
	var shellErr *ShellError
	if errors.As(err, &shellErr) {
		return shellErr.Output
	}
	return ShellOutput{}
}

// ExitCode returns the exit code of the last run.
func (sh *ShellJob) ExitCode() int { return sh.Output().ExitCode }

// Stdout returns the captured standard output of the last run.
func (sh *ShellJob) Stdout() string { return sh.Output().Stdout }

// Stderr returns the captured standard error of the last run.
func (sh *ShellJob) Stderr() string { return sh.Output().Stderr }

// JobStatus returns the status of the last run.
func (sh *ShellJob) JobStatus() Status { return sh.result.JobStatus() }
