package filesystem

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/repotasks/repo-tasks/internal/debug"
	"github.com/repotasks/repo-tasks/internal/storage"
	"github.com/repotasks/repo-tasks/internal/types"
)

// Search runs pattern over every line of every task file, header included,
// and returns the matching lines in path order. Line numbers start at 1.
func (s *Store) Search(ctx context.Context, pattern *regexp.Regexp) ([]storage.Match, error) {
	dirs, err := s.statusDirs()
	if err != nil {
		return nil, err
	}

	var matches []storage.Match
	for _, dir := range dirs {
		dirPath := filepath.Join(s.root, dir)
		entries, err := os.ReadDir(dirPath)
		if err != nil {
			return nil, storage.WrapIO("scan", dirPath, err)
		}
		for _, e := range entries {
			if !isTaskFile(e) {
				continue
			}
			path := filepath.Join(dirPath, e.Name())
			data, err := os.ReadFile(path) // #nosec G304 - path comes from a directory listing
			if err != nil {
				return nil, storage.WrapIO("read", path, err)
			}

			var task *types.Task
			scanner := bufio.NewScanner(bytes.NewReader(data))
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			line := 0
			for scanner.Scan() {
				line++
				text := scanner.Text()
				if !pattern.MatchString(text) {
					continue
				}
				if task == nil {
					task, err = readTask(path, types.Status(dir))
					if err != nil {
						debug.Logf("search: %s matched but does not parse: %v\n", path, err)
						break
					}
				}
				matches = append(matches, storage.Match{Task: task, Path: path, Line: line, Text: text})
			}
			if err := scanner.Err(); err != nil {
				return nil, storage.WrapIO("read", path, err)
			}
		}
	}
	return matches, nil
}
