package system

import (
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

// execStart launches a command and leaves it running.
func execStart(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", name)
	}
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// execOutput runs a command to completion and returns its combined output.
func execOutput(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "run %s: %s", name, string(out))
	}
	return string(out), nil
}
