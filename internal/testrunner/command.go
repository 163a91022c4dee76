package testrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Invocation is a fully prepared Jest run.
type Invocation struct {
	Dir  string
	Bin  string
	Args []string
	Env  []string
}

// Prepare builds the invocation of the local Jest binary under root.
func (a Adapter) Prepare(root string, opts RunOptions) (Invocation, error) {
	args, err := a.CLIArgs(opts)
	if err != nil {
		return Invocation{}, err
	}
	jsBin := filepath.Join(root, "node_modules", "jest", "bin", "jest.js")
	return Invocation{
		Dir:  root,
		Bin:  "node",
		Args: append([]string{jsBin}, args...),
		Env:  a.Env(os.Environ(), opts),
	}, nil
}

// Command returns an exec.Cmd for inv bound to ctx.
func (inv Invocation) Command(ctx context.Context) *exec.Cmd {
	// #nosec G204 -- arguments come from the adapter and the user's own flags
	cmd := exec.CommandContext(ctx, inv.Bin, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	return cmd
}

// Run executes inv with the given stdio and reports whether all tests passed.
func (inv Invocation) Run(ctx context.Context, stdout, stderr io.Writer) (bool, error) {
	cmd := inv.Command(ctx)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("run jest: %w", err)
	}
	return true, nil
}
