// Package ui provides terminal styling for tasks CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/repotasks/repo-tasks/internal/types"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	ColorPurple = lipgloss.AdaptiveColor{
		Light: "#a37acc", // ayu light purple
		Dark:  "#d2a6ff", // ayu dark purple
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	IDStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	TagStyle    = lipgloss.NewStyle().Foreground(ColorPurple)
)

// CategoryStyle for section headers - bold with accent color
var CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
	IconInfo = "ℹ"
)

const SeparatorLight = "──────────────────────────────────────────"

func RenderPass(s string) string   { return PassStyle.Render(s) }
func RenderWarn(s string) string   { return WarnStyle.Render(s) }
func RenderFail(s string) string   { return FailStyle.Render(s) }
func RenderMuted(s string) string  { return MutedStyle.Render(s) }
func RenderAccent(s string) string { return AccentStyle.Render(s) }
func RenderID(id string) string    { return IDStyle.Render(id) }

// RenderCategory renders a category header in uppercase with accent color
func RenderCategory(s string) string {
	return CategoryStyle.Render(strings.ToUpper(s))
}

// RenderSeparator renders the light separator line in muted color
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}

func RenderPassIcon() string { return PassStyle.Render(IconPass) }
func RenderWarnIcon() string { return WarnStyle.Render(IconWarn) }
func RenderFailIcon() string { return FailStyle.Render(IconFail) }
func RenderInfoIcon() string { return AccentStyle.Render(IconInfo) }

// RenderStatus colors the built-in statuses; custom statuses are accented.
func RenderStatus(status types.Status) string {
	switch status {
	case types.StatusTodo:
		return MutedStyle.Render(string(status))
	case types.StatusInProgress:
		return WarnStyle.Render(string(status))
	case types.StatusTesting:
		return AccentStyle.Render(string(status))
	case types.StatusDone:
		return PassStyle.Render(string(status))
	default:
		return CategoryStyle.Render(string(status))
	}
}

// RenderPriority colors a priority by its rank: the top configured priority
// is red, the next yellow, the rest plain. Unknown priorities are muted.
func RenderPriority(priority string, priorities []string) string {
	if priority == "" {
		return ""
	}
	rank := types.PriorityRank(priority, priorities)
	switch {
	case rank < 0:
		return MutedStyle.Render(priority)
	case rank == len(priorities)-1:
		return FailStyle.Bold(true).Render(priority)
	case rank == len(priorities)-2:
		return WarnStyle.Render(priority)
	default:
		return priority
	}
}

// RenderTags formats tags as "#a #b".
func RenderTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = TagStyle.Render("#" + t)
	}
	return strings.Join(parts, " ")
}
