// Package frontmatter converts tasks to and from markdown files with a YAML
// header:
//
//	---
//	ID: "20260110142106"
//	Title: Implement login
//	Priority: High
//	Tags:
//	    - auth
//	---
//
//	body text
//
// Header keys are always emitted in the order ID, Title, Priority, Blocks,
// DependsOn, Tags. Absent optional keys are omitted. Slug and status are not
// header fields; the store derives them from the file's name and location.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
)

// Delimiter is the line that opens and closes the header.
const Delimiter = "---"

// header fixes the key order of the YAML block.
type header struct {
	ID        string   `yaml:"ID"`
	Title     string   `yaml:"Title"`
	Priority  string   `yaml:"Priority,omitempty"`
	Blocks    []string `yaml:"Blocks,omitempty"`
	DependsOn []string `yaml:"DependsOn,omitempty"`
	Tags      []string `yaml:"Tags,omitempty"`
}

// Marshal renders task as a task file. The body is written verbatim after one
// blank line.
func Marshal(task *types.Task) ([]byte, error) {
	h := header{
		ID:        task.ID,
		Title:     task.Title,
		Priority:  task.Priority,
		Blocks:    task.Blocks,
		DependsOn: task.DependsOn,
		Tags:      task.Tags,
	}

	var node yaml.Node
	if err := node.Encode(h); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	quoteID(&node)

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	buf.WriteString(Delimiter + "\n\n")
	buf.WriteString(task.Body)
	return buf.Bytes(), nil
}

// quoteID forces the ID scalar to be double quoted so it is never read back
// as an integer.
func quoteID(n *yaml.Node) {
	if n.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "ID" {
			n.Content[i+1].Style = yaml.DoubleQuotedStyle
			n.Content[i+1].Tag = "!!str"
			return
		}
	}
}

// Unmarshal parses a task file. It returns the task (with Body set) and the
// body separately. The body is the text after the closing delimiter with
// leading blank lines and trailing whitespace removed.
//
// Text with fewer than two delimiter lines, a header that is not valid YAML,
// or a header without ID or Title fails with storage.ErrMalformedTask.
func Unmarshal(text []byte) (*types.Task, string, error) {
	head, rest, ok := split(string(text))
	if !ok {
		return nil, "", fmt.Errorf("%w: missing %q header delimiters", storage.ErrMalformedTask, Delimiter)
	}

	var h header
	if err := yaml.Unmarshal([]byte(head), &h); err != nil {
		return nil, "", fmt.Errorf("%w: %w", storage.ErrMalformedTask, err)
	}

	task := &types.Task{
		ID:        h.ID,
		Title:     h.Title,
		Priority:  h.Priority,
		Blocks:    h.Blocks,
		DependsOn: h.DependsOn,
		Tags:      h.Tags,
	}
	if err := task.Validate(); err != nil {
		return nil, "", fmt.Errorf("%w: %w", storage.ErrMalformedTask, err)
	}

	body := trimBody(rest)
	task.Body = body
	return task, body, nil
}

// split finds the first two delimiter lines and returns the header between
// them and everything after the second. Text before the first delimiter is
// ignored.
func split(text string) (head, rest string, ok bool) {
	var starts []int
	var ends []int
	pos := 0
	for pos <= len(text) && len(starts) < 2 {
		end := strings.IndexByte(text[pos:], '\n')
		lineEnd := len(text)
		next := len(text) + 1
		if end >= 0 {
			lineEnd = pos + end
			next = lineEnd + 1
		}
		if strings.TrimRight(text[pos:lineEnd], "\r") == Delimiter {
			starts = append(starts, pos)
			ends = append(ends, min(next, len(text)))
		}
		pos = next
	}
	if len(starts) < 2 {
		return "", "", false
	}
	return text[ends[0]:starts[1]], text[ends[1]:], true
}

func trimBody(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			return s
		}
		s = s[i+1:]
	}
}
