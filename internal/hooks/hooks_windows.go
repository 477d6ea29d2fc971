//go:build windows

package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/repotasks/repo-tasks/internal/types"
)

// runHook executes the hook and enforces a timeout on Windows.
// Windows lacks Unix-style process groups; on timeout we kill the started
// process and descendants that detached may survive.
func (r *Runner) runHook(ctx context.Context, hookPath, event string, task *types.Task) (retErr error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ctx, span := startHookSpan(ctx, hookPath, event, task)
	defer func() { endHookSpan(span, retErr) }()

	taskJSON, err := json.Marshal(task)
	if err != nil {
		return err
	}

	cmd := exec.Command(hookPath, task.ID, event)
	cmd.Stdin = bytes.NewReader(taskJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
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
