package commitmsg

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotasks/repo-tasks/internal/types"
)

func TestParseTaskIDs(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"bracketed", "[20260110142106] Add new feature", []string{"20260110142106"}},
		{"hash", "Refs #20260110142106", []string{"20260110142106"}},
		{"branch style", "Merge task/20260110142106 into main", []string{"20260110142106"}},
		{"closes", "Closes #20260110142106", []string{"20260110142106"}},
		{"fixes lowercase", "fixes #20260110142106", []string{"20260110142106"}},
		{"duplicate collapsed", "[20260110142106] Fix #20260110142106", []string{"20260110142106"}},
		{
			name:    "first occurrence order",
			message: "#20260110142107 then [20260110142106] and again #20260110142107",
			want:    []string{"20260110142107", "20260110142106"},
		},
		{
			name:    "multi-line",
			message: "Summary line\n\nBody mentions [20260110142106]\nand task/20260110142108",
			want:    []string{"20260110142106", "20260110142108"},
		},
		{"bare digits ignored", "Deployed at 20260110142106", nil},
		{"too short", "[2026011014210]", nil},
		{"too long", "#202601101421060", nil},
		{"no ids", "Just a message", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := p.Parse(tt.message)
			assert.Equal(t, tt.want, info.TaskIDs)
			assert.Equal(t, len(tt.want) > 0, info.HasTaskIDs())
		})
	}
}

func TestParseAddNewFeatureHasNoKeywords(t *testing.T) {
	info := NewParser().Parse("[20260110142106] Add new feature")
	assert.Equal(t, []string{"20260110142106"}, info.TaskIDs)
	assert.Empty(t, info.Keywords)
	assert.False(t, info.HasKeywords())
}

func TestParseKeywords(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		message string
		want    []Keyword
	}{
		{"done", "[20260110142106] Complete feature [done]", []Keyword{{"done", types.StatusDone}}},
		{"complete", "[COMPLETE] shipped", []Keyword{{"complete", types.StatusDone}}},
		{"completed", "all [completed]", []Keyword{{"complete", types.StatusDone}}},
		{"finished", "[Finished]", []Keyword{{"finished", types.StatusDone}}},
		{"closes", "Closes #20260110142106", []Keyword{{"closes", types.StatusDone}}},
		{"fixes", "this fixes #20260110142106", []Keyword{{"fixes", types.StatusDone}}},
		{"testing", "[testing] please", []Keyword{{"testing", types.StatusTesting}}},
		{"review", "[review]", []Keyword{{"review", types.StatusTesting}}},
		{"ready", "[ready]", []Keyword{{"ready", types.StatusTesting}}},
		{"wip", "Work in progress [wip]", []Keyword{{"wip", types.StatusInProgress}}},
		{"in-progress", "[in-progress]", []Keyword{{"in-progress", types.StatusInProgress}}},
		{"started", "[started] on it", []Keyword{{"started", types.StatusInProgress}}},
		{
			name:    "one per category in category order",
			message: "[wip] [review] [done] [finished]",
			want: []Keyword{
				{"done", types.StatusDone},
				{"review", types.StatusTesting},
				{"wip", types.StatusInProgress},
			},
		},
		{
			name:    "first pattern in category wins regardless of position",
			message: "[finished] then later [done]",
			want:    []Keyword{{"done", types.StatusDone}},
		},
		{"closes needs full id", "closes #123", nil},
		{"unbracketed words ignored", "done with testing, wip", nil},
		{"closesx is not closes", "xcloses #20260110142106", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.message).Keywords)
		})
	}
}

func TestFirstTaskID(t *testing.T) {
	p := NewParser()

	id, ok := p.Parse("#20260110142107 and #20260110142106").FirstTaskID()
	require.True(t, ok)
	assert.Equal(t, "20260110142107", id)

	_, ok = p.Parse("nothing").FirstTaskID()
	assert.False(t, ok)
}

func TestParserSharedAcrossGoroutines(t *testing.T) {
	p := NewParser()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info := p.Parse("[20260110142106] [done]")
			assert.Len(t, info.Keywords, 1)
		}()
	}
	wg.Wait()
}
