// Copyright © 2026 SATVI Lab
// Repository list parsing

package repolist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ParseFile reads and parses a repository list file.
func ParseFile(path string) ([]Record, []Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	records, diags := Parse(f)
	return records, diags, nil
}

// Parse parses repository list content into an ordered sequence of Records.
// Comment and blank lines are skipped; malformed lines are dropped and
// reported as Diagnostics.
func Parse(r io.Reader) ([]Record, []Diagnostic) {
	var records []Record
	var diags []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rec, err := parseLine(line, lineNo)
		if err != nil {
			diags = append(diags, Diagnostic{Line: lineNo, Text: raw, Reason: err.Error()})
			continue
		}
		records = append(records, rec)
	}

	return records, diags
}

// stripComment removes full-line and trailing inline comments. An inline
// comment starts at the first '#' preceded by whitespace.
func stripComment(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

// parseLine tokenizes a single non-empty list line into a Record.
func parseLine(line string, lineNo int) (Record, error) {
	tokens, err := shellquote.Split(line)
	if err != nil {
		return Record{}, fmt.Errorf("bad quoting: %w", err)
	}
	if len(tokens) == 0 {
		return Record{}, fmt.Errorf("empty line after tokenization")
	}

	rec := Record{Line: lineNo}

	first := tokens[0]
	if strings.HasPrefix(first, "@") {
		branch := strings.TrimPrefix(first, "@")
		if branch == "" {
			return Record{}, fmt.Errorf("worktree line with empty branch")
		}
		rec.Kind = KindWorktree
		rec.Branch = branch
	} else {
		spec, branch := SplitSpec(first)
		if spec == "" {
			return Record{}, fmt.Errorf("missing repository spec")
		}
		rec.Kind = KindClone
		rec.RepoSpec = spec
		rec.Branch = branch
	}

	for _, tok := range tokens[1:] {
		switch tok {
		case "-a", "--all-branches":
			rec.AllBranches = true
		case "-n", "--no-worktree":
			rec.NoWorktree = true
		default:
			if strings.HasPrefix(tok, "-") {
				return Record{}, fmt.Errorf("unrecognized flag %q", tok)
			}
			if rec.TargetDir == "" {
				rec.TargetDir = tok
			}
		}
	}

	return rec, nil
}

// SplitSpec splits a repository spec token into the spec proper and an
// optional trailing branch ref. The split happens on the first '@' after any
// URL scheme or ssh user part, so "git@github.com:owner/repo@dev" yields
// ("git@github.com:owner/repo", "dev").
func SplitSpec(token string) (spec, branch string) {
	start := 0
	if i := strings.Index(token, "://"); i >= 0 {
		start = i + len("://")
	} else if i := strings.Index(token, "@"); i >= 0 && strings.Contains(token[i:], ":") {
		// ssh form: user@host:path, the first '@' belongs to the user part
		start = i + 1
	}

	if i := strings.Index(token[start:], "@"); i >= 0 {
		at := start + i
		return token[:at], token[at+1:]
	}
	return token, ""
}
