package hooks

import (
	"bytes"
	"context"
	"os/exec"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/repotasks/repo-tasks/internal/telemetry"
	"github.com/repotasks/repo-tasks/internal/types"
)

const maxOutputBytes = 1024

func startHookSpan(ctx context.Context, hookPath, event string, task *types.Task) (context.Context, trace.Span) {
	return telemetry.Tracer("github.com/repotasks/repo-tasks/hooks").Start(ctx, "hook.exec",
		trace.WithAttributes(
			attribute.String("hook.event", event),
			attribute.String("hook.path", hookPath),
			attribute.String("tasks.task_id", task.ID),
		),
	)
}

func endHookSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// addHookOutputEvents adds stdout/stderr from a hook execution as span events.
// Each buffer is only recorded if non-empty; output is truncated to maxOutputBytes.
func addHookOutputEvents(span trace.Span, stdout, stderr *bytes.Buffer) {
	if n := stdout.Len(); n > 0 {
		span.AddEvent("hook.stdout", trace.WithAttributes(
			attribute.String("output", truncateOutput(stdout.String())),
			attribute.Int("bytes", n),
		))
	}
	if n := stderr.Len(); n > 0 {
		span.AddEvent("hook.stderr", trace.WithAttributes(
			attribute.String("output", truncateOutput(stderr.String())),
			attribute.Int("bytes", n),
		))
	}
}

func truncateOutput(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[:maxOutputBytes] + "...(truncated)"
}

// wrapExitError attaches the script's stderr to a failed run.
func wrapExitError(err error, stderr *bytes.Buffer) error {
	if _, ok := err.(*exec.ExitError); ok && stderr.Len() > 0 {
		return &Error{Err: err, Stderr: truncateOutput(stderr.String())}
	}
	return err
}
