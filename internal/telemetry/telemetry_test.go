package telemetry

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/storage/filesystem"
	"github.com/repotasks/repo-tasks/internal/types"
)

func TestInitDisabledInstallsNoop(t *testing.T) {
	t.Setenv("TASKS_OTEL_ENABLED", "")
	require.NoError(t, Init(context.Background(), "tasks", "test"))
	assert.False(t, Enabled())
	Shutdown(context.Background())
}

func TestWrapStoreDisabledReturnsInner(t *testing.T) {
	t.Setenv("TASKS_OTEL_ENABLED", "")
	inner := filesystem.New(t.TempDir())
	assert.Same(t, inner, WrapStore(inner).(*filesystem.Store))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestInstrumentedStoreRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx := context.Background()
	inner := filesystem.New(filepath.Join(t.TempDir(), "tasks"))
	store := newInstrumentedStore(inner)

	require.NoError(t, store.Init(ctx, types.DefaultStatuses))
	draft := &types.Task{Title: "Traced"}
	from, err := store.Create(ctx, draft, types.StatusTodo)
	require.NoError(t, err)
	res, err := store.Move(ctx, draft, from, types.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, storage.Moved, res.Outcome)
	_, _, err = store.FindByFragment(ctx, "does-not-exist")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Search(ctx, regexp.MustCompile("Traced"))
	require.NoError(t, err)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Contains(t, names, "store.init")
	assert.Contains(t, names, "store.create")
	assert.Contains(t, names, "store.move")
	assert.Contains(t, names, "store.find")
	assert.Contains(t, names, "store.search")
}
