package idgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTaskIDFormat(t *testing.T) {
	id := GenerateTaskID()
	require.Len(t, id, 14)
	assert.True(t, IsTaskID(id), "expected all digits, got %q", id)
}

func TestNewTaskIDZeroPads(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)
	assert.Equal(t, "20260102030405", NewTaskID(now))
}

func TestCreatedAtRoundTrip(t *testing.T) {
	now := time.Date(2026, 1, 10, 14, 21, 6, 0, time.Local)
	got, ok := CreatedAt(NewTaskID(now))
	require.True(t, ok)
	assert.True(t, now.Equal(got))

	_, ok = CreatedAt("not-an-id")
	assert.False(t, ok)
}

func TestIsTaskID(t *testing.T) {
	tests := map[string]bool{
		"20260110142106":  true,
		"2026011014210":   false,
		"202601101421066": false,
		"2026011014210a":  false,
		"":                false,
		"２０２６０１１０１４２１０６": false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsTaskID(in), "IsTaskID(%q)", in)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Create Requirements Document", "create-requirements-document"},
		{"Add new feature: User Authentication", "add-new-feature-user-authentication"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Fix bug #42 (again!)", "fix-bug-42-again"},
		{"Café déjà vu", "cafe-deja-vu"},
		{"Straße bauen", "strasse-bauen"},
		{"Æble og Ørsted", "aeble-og-orsted"},
		{"Fix 登录 page", "fix-page"},
		{"Привет", UntitledSlug},
		{"multiple   spaces\tand\nnewlines", "multiple-spaces-and-newlines"},
		{"!!!", UntitledSlug},
		{"", UntitledSlug},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugifyIsStable(t *testing.T) {
	title := "Same Input, Same Output"
	assert.Equal(t, Slugify(title), Slugify(title))
}
