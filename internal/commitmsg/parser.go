// Package commitmsg extracts task references and status keywords from commit
// messages. Parsing is pure: it reads text and returns a CommitInfo.
package commitmsg

import (
	"regexp"
	"strings"

	"github.com/repotasks/repo-tasks/internal/types"
)

// Keyword is a status keyword found in a message.
type Keyword struct {
	Keyword string       `json:"keyword"`
	Target  types.Status `json:"target"`
}

// CommitInfo is what a message says about tasks.
//
// TaskIDs are unique, in order of first appearance. Keywords hold at most one
// entry per category and are always ordered done, testing, in-progress,
// whatever order they appeared in the text.
type CommitInfo struct {
	TaskIDs  []string  `json:"task_ids"`
	Keywords []Keyword `json:"keywords"`
}

// HasTaskIDs reports whether any task ID was found.
func (c CommitInfo) HasTaskIDs() bool { return len(c.TaskIDs) > 0 }

// HasKeywords reports whether any status keyword was found.
func (c CommitInfo) HasKeywords() bool { return len(c.Keywords) > 0 }

// FirstTaskID returns the first task ID, if any.
func (c CommitInfo) FirstTaskID() (string, bool) {
	if len(c.TaskIDs) == 0 {
		return "", false
	}
	return c.TaskIDs[0], true
}

type keywordPattern struct {
	re      *regexp.Regexp
	keyword string
}

type category struct {
	target   types.Status
	patterns []keywordPattern
}

// Parser holds the compiled patterns. Build one with NewParser and share it;
// a Parser is safe for concurrent use.
type Parser struct {
	taskID     *regexp.Regexp
	categories []category
}

// taskIDPattern matches a marker ([, #, task/) followed by 14 digits, with an
// optional "closes " or "fixes " phrase before a marker and an optional
// closing bracket. A digit right after the 14 is rejected in Parse.
const taskIDPattern = `(?:(?i:closes|fixes)\s+)?(?:\[|#|task/)(\d{14})\]?`

// NewParser compiles every pattern once.
func NewParser() *Parser {
	kw := func(pattern, keyword string) keywordPattern {
		return keywordPattern{re: regexp.MustCompile(pattern), keyword: keyword}
	}
	return &Parser{
		taskID: regexp.MustCompile(taskIDPattern),
		// Category order is the output order. Within a category the first
		// pattern that matches wins.
		categories: []category{
			{
				target: types.StatusDone,
				patterns: []keywordPattern{
					kw(`\[done\]`, "done"),
					kw(`\[complete\]`, "complete"),
					kw(`\[completed\]`, "complete"),
					kw(`\[finished\]`, "finished"),
					kw(`\bcloses\s+#\d{14}`, "closes"),
					kw(`\bfixes\s+#\d{14}`, "fixes"),
				},
			},
			{
				target: types.StatusTesting,
				patterns: []keywordPattern{
					kw(`\[testing\]`, "testing"),
					kw(`\[review\]`, "review"),
					kw(`\[ready\]`, "ready"),
				},
			},
			{
				target: types.StatusInProgress,
				patterns: []keywordPattern{
					kw(`\[wip\]`, "wip"),
					kw(`\[in-progress\]`, "in-progress"),
					kw(`\[started\]`, "started"),
				},
			},
		},
	}
}

// Parse extracts task IDs and status keywords from message.
func (p *Parser) Parse(message string) CommitInfo {
	return CommitInfo{
		TaskIDs:  p.taskIDs(message),
		Keywords: p.keywords(message),
	}
}

func (p *Parser) taskIDs(message string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range p.taskID.FindAllStringSubmatchIndex(message, -1) {
		start, end := m[2], m[3]
		if end < len(message) && isDigit(message[end]) {
			continue
		}
		id := message[start:end]
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func (p *Parser) keywords(message string) []Keyword {
	lower := strings.ToLower(message)
	var out []Keyword
	for _, cat := range p.categories {
		for _, kp := range cat.patterns {
			if kp.re.MatchString(lower) {
				out = append(out, Keyword{Keyword: kp.keyword, Target: cat.target})
				break
			}
		}
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
