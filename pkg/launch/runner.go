package launch

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Command is a process to run.
type Command struct {
	Args  []string
	Stdin string
}

// String renders the command for logs. Stdin is never shown.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes and waits for them.
type ExecRunner struct{}

// Run starts cmd and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return ErrEmpty
	}

	path, err := exec.LookPath(cmd.Args[0])
	if err != nil {
		return fmt.Errorf("command %q not found in PATH", cmd.Args[0])
	}

	c := exec.CommandContext(ctx, path, cmd.Args[1:]...)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}

	output, err := c.CombinedOutput()
	if err != nil {
		if out := strings.TrimSpace(string(output)); out != "" {
			return fmt.Errorf("%w: %s", err, out)
		}
		return err
	}
	return nil
}
