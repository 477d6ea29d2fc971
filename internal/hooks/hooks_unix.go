//go:build unix

package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/repotasks/repo-tasks/internal/types"
)

// runHook executes the hook and enforces a timeout, killing the process group
// on expiration so descendant processes are terminated too.
func (r *Runner) runHook(ctx context.Context, hookPath, event string, task *types.Task) (retErr error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := startHookSpan(ctx, hookPath, event, task)
	defer func() { endHookSpan(span, retErr) }()

	taskJSON, err := json.Marshal(task)
	if err != nil {
		return err
	}

	// #nosec G204 -- hookPath is from the controlled .repo-tasks/hooks directory
	cmd := exec.Command(hookPath, task.ID, event)
	cmd.Stdin = bytes.NewReader(taskJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
			return fmt.Errorf("kill process group: %w", err)
		}
		<-done
		addHookOutputEvents(span, &stdout, &stderr)
		return fmt.Errorf("hook %s: %w", event, ctx.Err())
	case err := <-done:
		addHookOutputEvents(span, &stdout, &stderr)
		if err != nil {
			return wrapExitError(err, &stderr)
		}
		return nil
	}
}
