package githooks

import (
	"strings"

	"github.com/repotasks/repo-tasks/internal/commitmsg"
	"github.com/repotasks/repo-tasks/internal/configfile"
	"github.com/repotasks/repo-tasks/internal/idgen"
)

// SaveEnv is set on the commit made by `tasks save` so the pre-commit hook
// lets task files through.
const SaveEnv = "TASKS_SAVE"

// StagedTaskFiles returns the staged paths that live under a .repo-tasks/
// directory, at the top of the repository or below it.
func StagedTaskFiles(staged []string) []string {
	var out []string
	prefix := configfile.DirName + "/"
	for _, path := range staged {
		if strings.HasPrefix(path, prefix) || strings.Contains(path, "/"+prefix) {
			out = append(out, path)
		}
	}
	return out
}

// TaskIDFromBranch extracts the task ID from a branch named <id> or
// <id>-<slug>, as created by `tasks start`. Any leading path components
// (feature/, user/) are ignored.
func TaskIDFromBranch(branch string) (string, bool) {
	name := branch
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if len(name) < idgen.TaskIDLength {
		return "", false
	}
	id := name[:idgen.TaskIDLength]
	if !idgen.IsTaskID(id) {
		return "", false
	}
	if len(name) > idgen.TaskIDLength && name[idgen.TaskIDLength] != '-' {
		return "", false
	}
	return id, true
}

// PrefixMessage returns msg prefixed with "[<id>] " when branch names a task
// and msg does not already reference one. source is the second argument git
// passes to prepare-commit-msg; merge and squash messages are left alone.
func PrefixMessage(msg, branch, source string, parser *commitmsg.Parser) (string, bool) {
	switch source {
	case "merge", "squash":
		return msg, false
	}
	id, ok := TaskIDFromBranch(branch)
	if !ok {
		return msg, false
	}
	if parser.Parse(msg).HasTaskIDs() {
		return msg, false
	}
	return "[" + id + "] " + msg, true
}

// RejectionMessage is printed by pre-commit when task files are staged in an
// ordinary commit.
func RejectionMessage(files []string) string {
	var b strings.Builder
	b.WriteString("Error: Cannot commit task files with regular git commit\n\n")
	b.WriteString("The following task files are staged:\n")
	for _, f := range files {
		b.WriteString("  " + f + "\n")
	}
	b.WriteString("\nTask files should only be committed with 'tasks save'\n\n")
	b.WriteString("To fix:\n")
	b.WriteString("  1. Unstage task files: git restore --staged " + configfile.DirName + "/\n")
	b.WriteString("  2. Commit your code: git commit -m \"your message\"\n")
	b.WriteString("  3. Save task changes: tasks save\n\n")
	b.WriteString("Or bypass this check with: git commit --no-verify\n")
	return b.String()
}
